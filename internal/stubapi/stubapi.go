// Package stubapi is an in-memory stand-in for the storefront backend, used
// for local development and for exercising the gateway client in tests. It
// speaks the same five endpoints with the same error shapes.
package stubapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/VictorWes/PontoDosJogosFull/internal/domain"
)

type Server struct {
	mu       sync.Mutex
	tokens   map[string]bool
	products []domain.Product
	cart     *domain.Cart
	nextItem int64
}

func New() *Server {
	return &Server{
		tokens: make(map[string]bool),
		products: []domain.Product{
			{ID: 1, Name: "Dark Souls III", Description: "Edição completa", Price: 199.90, StockQuantity: 12},
			{ID: 2, Name: "Hollow Knight", Description: "Mídia digital", Price: 46.99, StockQuantity: 30},
			{ID: 3, Name: "Stardew Valley", Description: "Mídia digital", Price: 24.99, StockQuantity: 50},
		},
		nextItem: 1,
	}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/auth/login", s.login)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/produtos", s.listProducts)
		r.Get("/carrinho", s.getCart)
		r.Post("/carrinho/item", s.addItem)
		r.Delete("/carrinho/item/{itemId}", s.removeItem)
	})
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email e senha são obrigatórios")
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = true
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			respondError(w, http.StatusUnauthorized, "token ausente")
			return
		}
		s.mu.Lock()
		ok := s.tokens[header[len(prefix):]]
		s.mu.Unlock()
		if !ok {
			respondError(w, http.StatusUnauthorized, "token inválido")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	products := make([]domain.Product, len(s.products))
	copy(products, s.products)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) getCart(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	cart := s.cart
	s.mu.Unlock()
	if cart == nil {
		respondError(w, http.StatusNotFound, "carrinho não encontrado")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

type addItemRequest struct {
	ProductID int64 `json:"produtoId"`
	Quantity  int   `json:"quantidade"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantidade deve ser positiva")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var product *domain.Product
	for i := range s.products {
		if s.products[i].ID == req.ProductID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "produto não encontrado")
		return
	}
	if req.Quantity > product.StockQuantity {
		respondError(w, http.StatusBadRequest, "estoque insuficiente")
		return
	}

	if s.cart == nil {
		s.cart = &domain.Cart{ID: 1, Status: "NEW", CreationDate: time.Now().UTC(), Items: []domain.CartItem{}}
	}

	merged := false
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == req.ProductID {
			s.cart.Items[i].Quantity += req.Quantity
			s.cart.Items[i].Subtotal = float64(s.cart.Items[i].Quantity) * s.cart.Items[i].UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		s.cart.Items = append(s.cart.Items, domain.CartItem{
			ID:          s.nextItem,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    float64(req.Quantity) * product.Price,
		})
		s.nextItem++
	}
	s.recalcTotalLocked()

	respondJSON(w, http.StatusOK, s.cart)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id do item inválido")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		respondError(w, http.StatusNotFound, "carrinho não encontrado")
		return
	}
	for i, item := range s.cart.Items {
		if item.ID == itemID {
			s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
			s.recalcTotalLocked()
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	respondError(w, http.StatusNotFound, "item não encontrado")
}

func (s *Server) recalcTotalLocked() {
	total := 0.0
	for _, item := range s.cart.Items {
		total += item.Subtotal
	}
	s.cart.Total = total
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
