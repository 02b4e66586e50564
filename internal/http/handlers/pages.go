package handlers

import (
	"fmt"
	"net/http"

	"github.com/rioporto/v5-rioporto-sub007/internal/middleware"
	"github.com/rioporto/v5-rioporto-sub007/internal/models"
)

// PagesHandler serves placeholder pages for the platform's navigable
// routes. The route guard runs in front of every one of these; the handlers
// themselves only render, they never enforce.
type PagesHandler struct{}

// NewPagesHandler creates the page handler set.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Register wires the page routes into the mux. The admin widget demonstrates
// the partial-content gates on top of the route guard.
func (h *PagesHandler) Register(mux *http.ServeMux) {
	pages := map[string]string{
		"/login":        "Login",
		"/register":     "Cadastro",
		"/market":       "Mercado",
		"/about":        "Sobre",
		"/dashboard":    "Dashboard",
		"/trade":        "Negociação P2P",
		"/portfolio":    "Portfólio",
		"/wallet":       "Carteira",
		"/transactions": "Transações",
		"/settings":     "Configurações",
		"/settings/kyc": "Verificação KYC",
		"/admin":        "Administração",
	}
	for path, title := range pages {
		mux.Handle(path, page(title))
	}
	mux.HandleFunc("/", h.handleRoot)

	adminGate := middleware.RequireRole(models.RoleAdmin, models.RoleModerator)
	mux.Handle("/dashboard/widgets/disputes", adminGate(page("Disputas abertas")))
	otcGate := middleware.RequireKYC(2)
	mux.Handle("/dashboard/widgets/otc", otcGate(page("Mesa OTC")))
}

func (h *PagesHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page("Rioporto P2P").ServeHTTP(w, r)
}

func page(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<!doctype html><title>%s | Rioporto</title><h1>%s</h1>", title, title)
	})
}
