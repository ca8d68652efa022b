package bank

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "usuario"
)

// EntryType labels a ledger entry with the operation that produced it.
type EntryType string

const (
	EntryAperturaCuenta   EntryType = "apertura_cuenta"
	EntryDeposito         EntryType = "deposito"
	EntryRetiro           EntryType = "retiro"
	EntryCompraAcciones   EntryType = "compra_acciones"
	EntryApuestaDeportiva EntryType = "apuesta_deportiva"
	EntryPrestamoOtorgado EntryType = "prestamo_otorgado"
)

// EntryStatus is the lifecycle state of a ledger entry. Only entries in
// StatusPendienteAprobacion ever transition; the rest are terminal.
type EntryStatus string

const (
	StatusCompletado           EntryStatus = "completado"
	StatusPendienteAprobacion  EntryStatus = "pendiente_aprobacion"
	StatusAprobado             EntryStatus = "aprobado"
	StatusRechazado            EntryStatus = "rechazado"
	StatusRechazadoFondos      EntryStatus = "rechazado_fondos"
	StatusGanada               EntryStatus = "ganada"
	StatusPerdida              EntryStatus = "perdida"
	StatusSolicitudPendiente   EntryStatus = "pendiente"
	StatusPrestamoActivo       EntryStatus = "activo"
)

// Outcome is a sports bet pick or drawn result.
type Outcome string

const (
	OutcomeLocal     Outcome = "local"
	OutcomeVisitante Outcome = "visitante"
	OutcomeEmpate    Outcome = "empate"
)

type Account struct {
	Username        string
	PasswordHash    string
	Role            Role
	Name            string
	Email           string
	AccountNumber   string
	BalanceCentavos int64
	CreatedAt       time.Time
	Loans           []*Loan
	Holdings        map[string]int64 // symbol -> share count
}

type Instrument struct {
	Symbol        string
	PriceCentavos int64
	Volatility    float64 // stddev of the per-tick relative price change
	DividendYield float64 // reserved, never paid out
}

type SportsEvent struct {
	ID        int64   `json:"id"`
	Name      string  `json:"evento"`
	HomeOdds  float64 `json:"cuota_local"`
	AwayOdds  float64 `json:"cuota_visitante"`
	DrawOdds  float64 `json:"cuota_empate"`
}

type LedgerEntry struct {
	ID             string
	Owner          string
	Type           EntryType
	AmountCentavos int64
	Description    string
	Status         EntryStatus
	// RequestID links a two-phase entry to its pending request; zero for
	// single-phase entries.
	RequestID  int64
	CreatedAt  time.Time
	ResolvedBy string
	ResolvedAt time.Time
}

type PendingRequest struct {
	ID             int64
	Owner          string
	Type           EntryType
	AmountCentavos int64
	Description    string
	Status         EntryStatus
	CreatedAt      time.Time
}

type Loan struct {
	ID                  int
	PrincipalCentavos   int64
	RemainingCentavos   int64
	InterestRate        float64
	TermMonths          int
	InstallmentCentavos int64
	GrantedAt           time.Time
	Status              EntryStatus
}

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
}

type AccountSummary struct {
	Username        string    `json:"usuario"`
	Role            Role      `json:"tipo"`
	Name            string    `json:"nombre"`
	AccountNumber   string    `json:"numero_cuenta"`
	BalanceCentavos int64     `json:"saldo_centavos"`
	CreatedAt       time.Time `json:"fecha_creacion"`
}

type LedgerEntryView struct {
	ID             string      `json:"id"`
	Type           EntryType   `json:"tipo"`
	AmountCentavos int64       `json:"monto_centavos"`
	Description    string      `json:"descripcion"`
	Status         EntryStatus `json:"estado"`
	CreatedAt      time.Time   `json:"fecha"`
	ResolvedBy     string      `json:"procesado_por,omitempty"`
	ResolvedAt     *time.Time  `json:"fecha_procesamiento,omitempty"`
}

type PendingRequestView struct {
	ID             int64       `json:"id"`
	Owner          string      `json:"usuario"`
	Type           EntryType   `json:"tipo"`
	AmountCentavos int64       `json:"monto_centavos"`
	Description    string      `json:"descripcion"`
	Status         EntryStatus `json:"estado"`
	CreatedAt      time.Time   `json:"fecha"`
}

type InstrumentView struct {
	Symbol        string  `json:"simbolo"`
	PriceCentavos int64   `json:"precio_centavos"`
	Volatility    float64 `json:"volatilidad"`
	DividendYield float64 `json:"dividendo"`
}

type HoldingView struct {
	Symbol        string `json:"simbolo"`
	Quantity      int64  `json:"cantidad"`
	ValueCentavos int64  `json:"valor_centavos"`
}

type DashboardView struct {
	Username          string        `json:"usuario"`
	BalanceCentavos   int64         `json:"saldo_centavos"`
	PortfolioCentavos int64         `json:"valor_portafolio_centavos"`
	DebtCentavos      int64         `json:"deuda_total_centavos"`
	NetWorthCentavos  int64         `json:"patrimonio_centavos"`
	Holdings          []HoldingView `json:"inversiones"`
}

type TradeResult struct {
	Symbol             string `json:"simbolo"`
	Quantity           int64  `json:"cantidad"`
	PriceCentavos      int64  `json:"precio_centavos"`
	CostCentavos       int64  `json:"costo_centavos"`
	CommissionCentavos int64  `json:"comision_centavos"`
	TotalCentavos      int64  `json:"total_centavos"`
	BalanceCentavos    int64  `json:"nuevo_saldo_centavos"`
	Held               int64  `json:"acciones_en_cartera"`
}

type BetResult struct {
	EventID         int64   `json:"evento_id"`
	Pick            Outcome `json:"resultado_elegido"`
	Drawn           Outcome `json:"resultado_real"`
	Odds            float64 `json:"cuota"`
	Won             bool    `json:"ganada"`
	PayoffCentavos  int64   `json:"ganancia_centavos"`
	BalanceCentavos int64   `json:"nuevo_saldo_centavos"`
}

type LoanView struct {
	ID                  int         `json:"id"`
	PrincipalCentavos   int64       `json:"monto_original_centavos"`
	RemainingCentavos   int64       `json:"monto_restante_centavos"`
	InterestRate        float64     `json:"tasa_interes"`
	TermMonths          int         `json:"plazo_meses"`
	InstallmentCentavos int64       `json:"cuota_mensual_centavos"`
	GrantedAt           time.Time   `json:"fecha_otorgamiento"`
	Status              EntryStatus `json:"estado"`
}

type LoanResult struct {
	Loan            LoanView `json:"prestamo"`
	BalanceCentavos int64    `json:"nuevo_saldo_centavos"`
}

type ResolutionResult struct {
	RequestID int64       `json:"solicitud_id"`
	Status    EntryStatus `json:"estado_final"`
	Message   string      `json:"mensaje"`
}

type AdminOverview struct {
	TotalUsers           int   `json:"total_usuarios"`
	PendingRequests      int   `json:"total_solicitudes"`
	BankCapitalCentavos  int64 `json:"saldo_banco_centavos"`
	TotalDepositCentavos int64 `json:"total_depositos_centavos"`
	TotalLoanCentavos    int64 `json:"total_prestamos_centavos"`
}
