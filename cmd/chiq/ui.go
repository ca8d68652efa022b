package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chiqbank/internal/bank"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type movimientosPayload struct {
	Transacciones []bank.LedgerEntryView `json:"transacciones"`
}

type solicitudesPayload struct {
	Solicitudes []bank.PendingRequestView `json:"solicitudes"`
}

type accionesPayload struct {
	Acciones []bank.InstrumentView `json:"acciones"`
}

type eventosPayload struct {
	Eventos []bank.SportsEvent `json:"eventos"`
}

type prestamosPayload struct {
	Prestamos []bank.LoanView `json:"prestamos"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " es obligatorio.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// promptPassword reads without echo when stdin is a terminal, falling
// back to a plain read when it is piped.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptRequired(label)
	}
	for {
		fmt.Printf("%s: ", label)
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(string(raw))
		if text != "" {
			return text, nil
		}
		printWarn(label + " es obligatorio.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Opcion invalida.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Ingresa un numero valido.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("El valor debe ser > %.2f", min))
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Ingresa un numero entero.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("El valor debe ser >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderSaldo(raw map[string]any) error {
	sum, err := decodeInto[bank.AccountSummary](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== CUENTA %s ==\n", sum.AccountNumber)
	fmt.Printf("Titular: %s (%s)\n", sum.Name, sum.Username)
	fmt.Printf("Saldo:   %s ChiqDollars\n", formatCentavos(sum.BalanceCentavos))
	fmt.Println()
	return nil
}

func renderMovimientos(raw map[string]any) error {
	payload, err := decodeInto[movimientosPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== MOVIMIENTOS ==")
	if len(payload.Transacciones) == 0 {
		printInfo("Sin movimientos todavia.")
		return nil
	}
	fmt.Printf("%-18s %14s %-22s %-20s %-16s\n", "TIPO", "MONTO", "ESTADO", "DESCRIPCION", "FECHA")
	for _, tx := range payload.Transacciones {
		fmt.Printf("%-18s %14s %-22s %-20s %-16s\n",
			tx.Type,
			formatCentavos(tx.AmountCentavos),
			colorizeEstado(tx.Status),
			truncate(tx.Description, 20),
			tx.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println()
	return nil
}

func renderPatrimonio(raw map[string]any) error {
	d, err := decodeInto[bank.DashboardView](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== PATRIMONIO DE %s ==\n", strings.ToUpper(d.Username))
	fmt.Printf("Saldo:        %s ChiqDollars\n", formatCentavos(d.BalanceCentavos))
	fmt.Printf("Inversiones:  %s ChiqDollars\n", formatCentavos(d.PortfolioCentavos))
	fmt.Printf("Deuda:        %s ChiqDollars\n", formatCentavos(d.DebtCentavos))
	fmt.Printf("Patrimonio:   %s ChiqDollars\n", colorizeCentavos(d.NetWorthCentavos))

	if len(d.Holdings) > 0 {
		fmt.Println()
		accent.Println("Cartera")
		fmt.Printf("%-12s %10s %14s\n", "SIMBOLO", "CANTIDAD", "VALOR")
		for _, h := range d.Holdings {
			fmt.Printf("%-12s %10d %14s\n", h.Symbol, h.Quantity, formatCentavos(h.ValueCentavos))
		}
	}
	fmt.Println()
	return nil
}

func renderSolicitudCreada(raw map[string]any) error {
	req, err := decodeInto[bank.PendingRequestView](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Solicitud #%d registrada: %s de %s ChiqDollars. Esperando aprobacion.",
		req.ID, req.Type, formatCentavos(req.AmountCentavos)))
	return nil
}

func renderSolicitudes(raw map[string]any) error {
	payload, err := decodeInto[solicitudesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== SOLICITUDES PENDIENTES ==")
	if len(payload.Solicitudes) == 0 {
		printInfo("No hay solicitudes pendientes.")
		return nil
	}
	fmt.Printf("%-6s %-14s %-10s %14s %-20s %-16s\n", "ID", "USUARIO", "TIPO", "MONTO", "DESCRIPCION", "FECHA")
	for _, req := range payload.Solicitudes {
		fmt.Printf("%-6d %-14s %-10s %14s %-20s %-16s\n",
			req.ID,
			truncate(req.Owner, 14),
			req.Type,
			formatCentavos(req.AmountCentavos),
			truncate(req.Description, 20),
			req.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	fmt.Println()
	return nil
}

func renderResolucion(raw map[string]any) error {
	res, err := decodeInto[bank.ResolutionResult](raw)
	if err != nil {
		return err
	}
	switch res.Status {
	case bank.StatusAprobado:
		printSuccess(res.Message)
	default:
		printWarn(res.Message)
	}
	return nil
}

func renderAcciones(raw map[string]any) error {
	payload, err := decodeInto[accionesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== MERCADO DE ACCIONES ==")
	fmt.Printf("%-12s %14s %12s %12s\n", "SIMBOLO", "PRECIO", "VOLATILIDAD", "DIVIDENDO")
	for _, inst := range payload.Acciones {
		fmt.Printf("%-12s %14s %11.0f%% %11.0f%%\n",
			inst.Symbol,
			formatCentavos(inst.PriceCentavos),
			inst.Volatility*100,
			inst.DividendYield*100,
		)
	}
	fmt.Println()
	return nil
}

func renderCompra(raw map[string]any) error {
	res, err := decodeInto[bank.TradeResult](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== COMPRA %s ==\n", res.Symbol)
	fmt.Printf("Cantidad:  %d\n", res.Quantity)
	fmt.Printf("Precio:    %s ChiqDollars\n", formatCentavos(res.PriceCentavos))
	fmt.Printf("Costo:     %s ChiqDollars\n", formatCentavos(res.CostCentavos))
	fmt.Printf("Comision:  %s ChiqDollars\n", formatCentavos(res.CommissionCentavos))
	fmt.Printf("Total:     %s ChiqDollars\n", formatCentavos(res.TotalCentavos))
	fmt.Printf("Saldo:     %s ChiqDollars\n", formatCentavos(res.BalanceCentavos))
	fmt.Printf("En cartera:%d\n", res.Held)
	fmt.Println()
	return nil
}

func renderEventos(raw map[string]any) error {
	payload, err := decodeInto[eventosPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== EVENTOS DEPORTIVOS ==")
	fmt.Printf("%-4s %-40s %8s %10s %8s\n", "ID", "EVENTO", "LOCAL", "VISITANTE", "EMPATE")
	for _, ev := range payload.Eventos {
		fmt.Printf("%-4d %-40s %8.2f %10.2f %8.2f\n",
			ev.ID, truncate(ev.Name, 40), ev.HomeOdds, ev.AwayOdds, ev.DrawOdds)
	}
	fmt.Println()
	return nil
}

func renderApuesta(raw map[string]any) error {
	res, err := decodeInto[bank.BetResult](raw)
	if err != nil {
		return err
	}
	fmt.Printf("Resultado real: %s (apostaste a %s, cuota %.2f)\n", res.Drawn, res.Pick, res.Odds)
	if res.Won {
		printSuccess(fmt.Sprintf("Ganaste %s ChiqDollars!", formatCentavos(res.PayoffCentavos)))
	} else {
		danger.Println("Perdiste la apuesta.")
	}
	fmt.Printf("Saldo: %s ChiqDollars\n", formatCentavos(res.BalanceCentavos))
	return nil
}

func renderPrestamos(raw map[string]any) error {
	payload, err := decodeInto[prestamosPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== PRESTAMOS ==")
	if len(payload.Prestamos) == 0 {
		printInfo("No tienes prestamos.")
		return nil
	}
	fmt.Printf("%-4s %14s %14s %8s %8s %14s %-10s\n", "ID", "MONTO", "RESTANTE", "TASA", "MESES", "CUOTA", "ESTADO")
	for _, loan := range payload.Prestamos {
		fmt.Printf("%-4d %14s %14s %7.0f%% %8d %14s %-10s\n",
			loan.ID,
			formatCentavos(loan.PrincipalCentavos),
			formatCentavos(loan.RemainingCentavos),
			loan.InterestRate*100,
			loan.TermMonths,
			formatCentavos(loan.InstallmentCentavos),
			loan.Status,
		)
	}
	fmt.Println()
	return nil
}

func renderPrestamoOtorgado(raw map[string]any) error {
	res, err := decodeInto[bank.LoanResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Prestamo #%d otorgado: %s ChiqDollars a %d meses, cuota mensual %s.",
		res.Loan.ID,
		formatCentavos(res.Loan.PrincipalCentavos),
		res.Loan.TermMonths,
		formatCentavos(res.Loan.InstallmentCentavos)))
	fmt.Printf("Saldo: %s ChiqDollars\n", formatCentavos(res.BalanceCentavos))
	return nil
}

func renderResumen(raw map[string]any) error {
	res, err := decodeInto[bank.AdminOverview](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== RESUMEN DEL BANCO ==")
	fmt.Printf("Usuarios:               %d\n", res.TotalUsers)
	fmt.Printf("Solicitudes pendientes: %d\n", res.PendingRequests)
	fmt.Printf("Capital del banco:      %s ChiqDollars\n", formatCentavos(res.BankCapitalCentavos))
	fmt.Printf("Depositos totales:      %s ChiqDollars\n", formatCentavos(res.TotalDepositCentavos))
	fmt.Printf("Prestamos vigentes:     %s ChiqDollars\n", formatCentavos(res.TotalLoanCentavos))
	fmt.Println()
	return nil
}

func colorizeEstado(s bank.EntryStatus) string {
	switch s {
	case bank.StatusAprobado, bank.StatusCompletado, bank.StatusGanada:
		return success.Sprint(string(s))
	case bank.StatusRechazado, bank.StatusRechazadoFondos, bank.StatusPerdida:
		return danger.Sprint(string(s))
	default:
		return warn.Sprint(string(s))
	}
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func colorizeCentavos(v int64) string {
	text := formatCentavos(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatCentavos(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / bank.CentavosPerChiq
	frac := v % bank.CentavosPerChiq
	return fmt.Sprintf("%s%s.%02d", sign, comma(whole), frac)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
