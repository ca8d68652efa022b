package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"chiqbank/internal/auth"
	"chiqbank/internal/bank"
	"chiqbank/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type contextKey string

const userContextKey contextKey = "user"

type UserContext struct {
	Username string
	Role     string
	Name     string
}

type Server struct {
	cfg      config.APIConfig
	log      *slog.Logger
	tokens   *auth.Manager
	bank     *bank.Store
	validate *validator.Validate
	mux      *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, tokens *auth.Manager, store *bank.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		tokens:   tokens,
		bank:     store,
		validate: validator.New(),
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(s.marketTick)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/registro", s.handleRegister)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/api/saldo", s.handleBalance)
		r.Get("/api/transacciones", s.handleTransactions)
		r.Get("/api/patrimonio", s.handleDashboard)
		r.Post("/api/solicitar_transaccion", s.handleRequestTransaction)

		r.Get("/acciones", s.handleQuotes)
		r.Post("/comprar_acciones", s.handleBuyShares)
		r.Get("/eventos", s.handleEvents)
		r.Post("/apostar_deportes", s.handlePlaceBet)
		r.Get("/prestamos", s.handleLoans)
		r.Post("/solicitar_prestamo", s.handleApplyLoan)

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/api/solicitudes", s.handlePendingRequests)
			r.Post("/api/procesar_solicitud", s.handleResolveRequest)
			r.Get("/admin/resumen", s.handleOverview)
		})
	})
}

// marketTick gives every request a chance to move stock prices.
func (s *Server) marketTick(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.bank.MaybeTick()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "falta el token de acceso")
			return
		}
		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "token invalido o expirado")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, UserContext{
			Username: claims.Username,
			Role:     claims.Role,
			Name:     claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := userFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if user.Role != string(bank.RoleAdmin) {
			writeError(w, http.StatusForbidden, "se requiere cuenta de administrador")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok || user.Username == "" {
		return UserContext{}, errors.New("falta el contexto de autenticacion")
	}
	return user, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"usuario" validate:"required"`
		Password string `json:"contrasena" validate:"required"`
		Name     string `json:"nombre"`
		Email    string `json:"email" validate:"omitempty,email"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := s.bank.CreateAccount(bank.RegisterInput{
		Username: in.Username,
		Password: in.Password,
		Name:     in.Name,
		Email:    in.Email,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"usuario" validate:"required"`
		Password string `json:"contrasena" validate:"required"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := s.bank.Authenticate(in.Username, in.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := s.tokens.Issue(sum.Username, string(sum.Role), sum.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"usuario": sum.Username,
		"tipo":    sum.Role,
		"nombre":  sum.Name,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	sum, err := s.bank.Balance(user.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	txs, err := s.bank.Transactions(user.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transacciones": txs})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	view, err := s.bank.Dashboard(user.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRequestTransaction(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Type           string `json:"tipo" validate:"required,oneof=deposito retiro"`
		AmountCentavos int64  `json:"monto_centavos" validate:"required,gt=0"`
		Description    string `json:"descripcion"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := s.bank.EnqueueRequest(user.Username, bank.EntryType(in.Type), in.AmountCentavos, in.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleQuotes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"acciones": s.bank.Quotes()})
}

func (s *Server) handleBuyShares(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Symbol   string `json:"simbolo" validate:"required"`
		Quantity int64  `json:"cantidad" validate:"required,gt=0"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.bank.BuyShares(user.Username, strings.ToUpper(strings.TrimSpace(in.Symbol)), in.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"eventos": s.bank.Events()})
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		EventID        int64  `json:"evento_id" validate:"required"`
		Pick           string `json:"resultado" validate:"required,oneof=local visitante empate"`
		AmountCentavos int64  `json:"monto_centavos" validate:"required,gt=0"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.bank.PlaceBet(user.Username, in.EventID, bank.Outcome(in.Pick), in.AmountCentavos)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	loans, err := s.bank.Loans(user.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prestamos": loans})
}

func (s *Server) handleApplyLoan(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		PrincipalCentavos int64 `json:"monto_centavos" validate:"required,gt=0"`
		TermMonths        int   `json:"plazo_meses" validate:"required,gt=0"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.bank.ApplyLoan(user.Username, in.PrincipalCentavos, in.TermMonths)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handlePendingRequests(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"solicitudes": s.bank.PendingRequests()})
}

func (s *Server) handleResolveRequest(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		RequestID int64  `json:"solicitud_id" validate:"required"`
		Decision  string `json:"decision" validate:"required,oneof=aprobar rechazar"`
	}
	if err := s.decodeValid(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.bank.ResolvePending(user.Username, in.RequestID, in.Decision == "aprobar")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.bank.Overview())
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bank.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, bank.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, bank.ErrAccountNotFound),
		errors.Is(err, bank.ErrInstrumentNotFound),
		errors.Is(err, bank.ErrEventNotFound),
		errors.Is(err, bank.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bank.ErrInsufficientFunds),
		errors.Is(err, bank.ErrInsufficientCapacity),
		errors.Is(err, bank.ErrUsernameTooShort),
		errors.Is(err, bank.ErrPasswordTooShort),
		errors.Is(err, bank.ErrInvalidRequestType),
		errors.Is(err, bank.ErrInvalidOutcome),
		errors.Is(err, bank.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) decodeValid(r *http.Request, out any) error {
	if err := decodeJSON(r, out); err != nil {
		return err
	}
	return s.validate.Struct(out)
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
