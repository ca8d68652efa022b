package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chiqbank/internal/bank"
	cl "chiqbank/internal/cli"
	"chiqbank/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "chiq",
		Short:        "Cliente de ChiquiBank",
		SilenceUsage: true,
	}

	root.AddCommand(
		newRegistroCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newSaldoCmd(&apiBase),
		newMovimientosCmd(&apiBase),
		newPatrimonioCmd(&apiBase),
		newSolicitarCmd(&apiBase),
		newAccionesCmd(&apiBase),
		newApuestasCmd(&apiBase),
		newPrestamosCmd(&apiBase),
		newAdminCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newRegistroCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "registro",
		Short: "Crear una cuenta en ChiquiBank",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := promptRequired("Usuario")
			if err != nil {
				return err
			}
			name, err := promptOptional("Nombre completo")
			if err != nil {
				return err
			}
			email, err := promptOptional("Email")
			if err != nil {
				return err
			}
			password, err := promptPassword("Contrasena")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Register(ctx, username, password, name, email)
			if err != nil {
				return err
			}
			account, _ := out["numero_cuenta"].(string)
			printSuccess(fmt.Sprintf("Cuenta creada: %s. Inicia sesion con `chiq login`.", account))
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesion",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := promptRequired("Usuario")
			if err != nil {
				return err
			}
			password, err := promptPassword("Contrasena")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			resp, err := client.Login(ctx, username, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				Token:    resp.Token,
				Username: resp.Username,
				Role:     resp.Role,
				Name:     resp.Name,
			}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bienvenido, %s.", resp.Username))
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesion local",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Sesion cerrada.")
			return nil
		},
	}
}

func newSaldoCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "saldo",
		Short: "Consultar el saldo de tu cuenta",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Balance(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderSaldo(out)
		},
	}
}

func newMovimientosCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "movimientos",
		Short: "Historial de transacciones, mas recientes primero",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Transactions(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderMovimientos(out)
		},
	}
}

func newPatrimonioCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "patrimonio",
		Short: "Ver saldo, inversiones, deuda y patrimonio neto",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Dashboard(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderPatrimonio(out)
		},
	}
}

func newSolicitarCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "solicitar [deposito|retiro]",
		Short: "Solicitar un deposito o retiro (requiere aprobacion)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			var kind string
			if len(args) > 0 {
				kind = strings.ToLower(strings.TrimSpace(args[0]))
				if kind != "deposito" && kind != "retiro" {
					return fmt.Errorf("tipo invalido: %s", kind)
				}
			} else {
				kind, err = promptChoice("Tipo", []string{"deposito", "retiro"}, "deposito")
				if err != nil {
					return err
				}
			}
			amount, err := promptFloat("Monto (ChiqDollars)", 0)
			if err != nil {
				return err
			}
			description, err := promptOptional("Descripcion")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).RequestTransaction(ctx, sess.Token, kind, bank.ChiqToCentavos(amount), description)
			if err != nil {
				return err
			}
			return renderSolicitudCreada(out)
		},
	}
}

func newAccionesCmd(apiBase *string) *cobra.Command {
	acciones := &cobra.Command{
		Use:   "acciones",
		Short: "Mercado de acciones",
	}
	acciones.AddCommand(&cobra.Command{
		Use:   "listar",
		Short: "Cotizaciones actuales",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Quotes(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderAcciones(out)
		},
	})
	acciones.AddCommand(&cobra.Command{
		Use:   "comprar [simbolo]",
		Short: "Comprar acciones al precio actual",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			var symbol string
			if len(args) > 0 {
				symbol = strings.ToUpper(strings.TrimSpace(args[0]))
			} else {
				symbol, err = promptRequired("Simbolo")
				if err != nil {
					return err
				}
				symbol = strings.ToUpper(strings.TrimSpace(symbol))
			}
			qty, err := promptInt64("Cantidad", 1)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).BuyShares(ctx, sess.Token, symbol, qty)
			if err != nil {
				return err
			}
			return renderCompra(out)
		},
	})
	return acciones
}

func newApuestasCmd(apiBase *string) *cobra.Command {
	apuestas := &cobra.Command{
		Use:   "apuestas",
		Short: "Apuestas deportivas",
	}
	apuestas.AddCommand(&cobra.Command{
		Use:   "eventos",
		Short: "Eventos disponibles y sus cuotas",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Events(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderEventos(out)
		},
	})
	apuestas.AddCommand(&cobra.Command{
		Use:   "apostar [evento_id]",
		Short: "Apostar a un evento, resuelta al instante",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			eventID, err := int64FromArgOrPrompt(args, 0, "Evento")
			if err != nil {
				return err
			}
			pick, err := promptChoice("Resultado", []string{"local", "visitante", "empate"}, "local")
			if err != nil {
				return err
			}
			amount, err := promptFloat("Monto (ChiqDollars)", 0)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).PlaceBet(ctx, sess.Token, eventID, pick, bank.ChiqToCentavos(amount))
			if err != nil {
				return err
			}
			return renderApuesta(out)
		},
	})
	return apuestas
}

func newPrestamosCmd(apiBase *string) *cobra.Command {
	prestamos := &cobra.Command{
		Use:   "prestamos",
		Short: "Prestamos personales",
	}
	prestamos.AddCommand(&cobra.Command{
		Use:   "listar",
		Short: "Tus prestamos vigentes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Loans(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderPrestamos(out)
		},
	})
	prestamos.AddCommand(&cobra.Command{
		Use:   "solicitar",
		Short: "Pedir un prestamo",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			amount, err := promptFloat("Monto (ChiqDollars)", 0)
			if err != nil {
				return err
			}
			months, err := promptInt64("Plazo en meses", 1)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ApplyLoan(ctx, sess.Token, bank.ChiqToCentavos(amount), int(months))
			if err != nil {
				return err
			}
			return renderPrestamoOtorgado(out)
		},
	})
	return prestamos
}

func newAdminCmd(apiBase *string) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Operaciones de administrador",
	}
	admin.AddCommand(&cobra.Command{
		Use:   "solicitudes",
		Short: "Solicitudes pendientes de aprobacion",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).PendingRequests(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderSolicitudes(out)
		},
	})
	admin.AddCommand(&cobra.Command{
		Use:   "procesar [solicitud_id] [aprobar|rechazar]",
		Short: "Resolver una solicitud pendiente",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			requestID, err := int64FromArgOrPrompt(args, 0, "Solicitud")
			if err != nil {
				return err
			}
			var decision string
			if len(args) >= 2 {
				decision = strings.ToLower(strings.TrimSpace(args[1]))
				if decision != "aprobar" && decision != "rechazar" {
					return fmt.Errorf("decision invalida: %s", decision)
				}
			} else {
				decision, err = promptChoice("Decision", []string{"aprobar", "rechazar"}, "aprobar")
				if err != nil {
					return err
				}
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).ResolveRequest(ctx, sess.Token, requestID, decision)
			if err != nil {
				return err
			}
			return renderResolucion(out)
		},
	})
	admin.AddCommand(&cobra.Command{
		Use:   "resumen",
		Short: "Panorama general del banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Overview(ctx, sess.Token)
			if err != nil {
				return err
			}
			return renderResumen(out)
		},
	})
	return admin
}

func int64FromArgOrPrompt(args []string, idx int, label string) (int64, error) {
	if len(args) > idx {
		v, err := strconv.ParseInt(strings.TrimSpace(args[idx]), 10, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%s invalido", strings.ToLower(label))
		}
		return v, nil
	}
	return promptInt64(label, 1)
}
