package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every endpoint. requireAuth wraps the routes that need
// a signed-in user.
func NewRouter(h *Handlers, requireAuth func(http.Handler) http.Handler) *mux.Router {
	r := mux.NewRouter()
	protect := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", h.Status).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	api.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	api.Handle("/users/{id}", protect(h.UpdateUser)).Methods(http.MethodPut)
	api.Handle("/users/{id}", protect(h.DeleteUser)).Methods(http.MethodDelete)
	api.Handle("/users/{id}/photo", protect(h.UploadProfilePhoto)).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}/posts", h.ListUserPosts).Methods(http.MethodGet)

	api.Handle("/uploads", protect(h.UploadImage)).Methods(http.MethodPost)

	api.HandleFunc("/posts", h.ListPosts).Methods(http.MethodGet)
	api.Handle("/posts", protect(h.CreatePost)).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	api.Handle("/posts/{id}", protect(h.UpdatePost)).Methods(http.MethodPut)
	api.Handle("/posts/{id}", protect(h.DeletePost)).Methods(http.MethodDelete)

	api.Handle("/admin/sweep", protect(h.Sweep)).Methods(http.MethodPost)

	// mux subrouters do not inherit these from their parent
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, "not found", http.StatusNotFound)
	})
	for _, router := range []*mux.Router{r, api} {
		router.MethodNotAllowedHandler = methodNotAllowed
		router.NotFoundHandler = notFound
	}

	return r
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "authentication required", http.StatusUnauthorized)
	}
	return userID, ok
}
