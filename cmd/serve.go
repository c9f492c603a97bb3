package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicgive/compliance-cli/internal/election"
	"github.com/civicgive/compliance-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server for election-date change events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("GET /session", func(w http.ResponseWriter, r *http.Request) {
			info := env.Session.Info(r.Context())
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(info)
		})

		mux.HandleFunc("POST /webhook/election-dates", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				State      string  `json:"state"`
				NewPrimary *string `json:"new_primary"`
				NewGeneral string  `json:"new_general"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if req.State == "" || req.NewGeneral == "" {
				http.Error(w, `{"error":"state and new_general are required"}`, http.StatusBadRequest)
				return
			}

			general, err := time.Parse("2006-01-02", req.NewGeneral)
			if err != nil {
				http.Error(w, `{"error":"invalid new_general date"}`, http.StatusBadRequest)
				return
			}
			newDates := model.ElectionDates{State: req.State, General: general}
			if req.NewPrimary != nil {
				primary, err := time.Parse("2006-01-02", *req.NewPrimary)
				if err != nil {
					http.Error(w, `{"error":"invalid new_primary date"}`, http.StatusBadRequest)
					return
				}
				newDates.Primary = &primary
			}

			oldDates := env.Resolver.Resolve(r.Context(), req.State, election.CycleYear(time.Now()))

			// The run can take minutes on a large state, so respond
			// 202 and dispatch in the background.
			go func() {
				summary, err := env.Notifier.HandleElectionDateChange(ctx, req.State, *oldDates, newDates)
				if err != nil {
					zap.L().Error("webhook notification failed",
						zap.String("state", req.State),
						zap.Error(err),
					)
					return
				}
				zap.L().Info("webhook notification complete",
					zap.String("state", req.State),
					zap.Int("emails_sent", summary.TotalEmailsSent),
				)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "accepted",
				"state":  req.State,
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
