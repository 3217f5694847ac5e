package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"droneregistry/internal/auth/token"
	"droneregistry/internal/registry/metrics"
	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/audit/outbox"
)

func newMigrateCommand(configFile *string) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the registry and outbox tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.close()
			if reset {
				if a.sqlStore == nil {
					return errors.New("migrate --reset requires a sql database driver")
				}
				a.logger.WarnContext(ctx, "dropping registry tables", "driver", a.cfg.Database.Driver)
				if err := a.sqlStore.DropSchema(ctx); err != nil {
					return err
				}
			}
			return a.migrate(ctx)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop registry tables before creating them")
	return cmd
}

// sampleManufacturer is the catalogue entry a fresh deployment starts with.
func sampleManufacturer() *models.CreateManufacturerRequest {
	return &models.CreateManufacturerRequest{
		FullName:   "DJI Technology Co., Ltd.",
		CommonName: "DJI",
		Acronym:    "DJI",
		Role:       "Drone Manufacturer",
		Country:    "CN",
		Address: &models.AddressInput{
			AddressLine1: "14th Floor, West Wing, Skyworth Semiconductor Design Building",
			City:         "Shenzhen",
			Country:      "CN",
		},
	}
}

func newSeedCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample manufacturer when the catalogue is empty",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.close()

			reg := prometheus.NewRegistry()
			svc := a.service(metrics.New(reg), outbox.NewMetricsWith(reg))
			m, created, err := svc.SeedManufacturer(ctx, sampleManufacturer())
			if err != nil {
				return err
			}
			if created {
				a.logger.InfoContext(ctx, "seeded manufacturer", "id", m.ID, "name", m.FullName)
			} else {
				a.logger.InfoContext(ctx, "manufacturers already present; nothing seeded", "first", m.FullName)
			}
			return nil
		},
	}
}

func newIssueTokenCommand(configFile *string) *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.close()
			if ttl <= 0 {
				ttl = a.cfg.Auth.TokenTTL
			}
			signed, claims, err := a.tokens().Generate(subject, scopes, ttl)
			if err != nil {
				return err
			}
			a.logger.InfoContext(cmd.Context(), "issued token",
				"subject", claims.Subject,
				"jti", claims.ID,
				"expires_at", claims.ExpiresAt.Time,
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "granted scope, repeatable (e.g. "+token.ScopePrivileged+")")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	return cmd
}

func newRevokeTokenCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke-token TOKEN",
		Short: "Add a token to the shared revocation list until it expires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, *configFile)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.connectRedis(ctx); err != nil {
				return err
			}
			if a.redisClient == nil {
				return errors.New("revoke-token needs redis.url; in-memory revocations do not outlive this process")
			}

			claims, err := a.tokens().Validate(args[0])
			if err != nil {
				return err
			}
			ttl := a.cfg.Auth.TokenTTL
			if claims.ExpiresAt != nil {
				ttl = time.Until(claims.ExpiresAt.Time)
			}
			if err := a.revocations().Revoke(ctx, claims.ID, ttl); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "token revoked", "jti", claims.ID, "ttl", ttl.Round(time.Second))
			return nil
		},
	}
	cmd.Flags().String("redis.url", "", "redis URL for the shared token revocation list")
	return cmd
}
