package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/domain/repository"
	pginfra "github.com/oksasatya/firmhub/internal/infrastructure/postgres"
	"github.com/oksasatya/firmhub/pkg/helpers"
)

type seedOptions struct {
	Username   string
	Email      string
	Password   string
	FirmName   string
	Area       string
	Categories []string
	Regions    []string
	Offer      string
}

func main() {
	_ = godotenv.Load()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := seedOptions{}
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Seed a demo vendor and, optionally, one firm",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			poolOpts := pginfra.OptionsFromConfig(cfg)
			poolOpts.MaxConns, poolOpts.MinConns = 2, 1
			pool, err := pginfra.NewPool(ctx, poolOpts)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			vendors := pginfra.NewVendorRepository(pool)
			firms := pginfra.NewFirmRepository(pool)
			return seed(ctx, vendors, firms, logger, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Username, "username", "demovendor", "vendor username")
	f.StringVar(&opts.Email, "email", "demo@firmhub.local", "vendor email")
	f.StringVar(&opts.Password, "password", "password123", "vendor password")
	f.StringVar(&opts.FirmName, "firm-name", "Demo Dosa House", "firm name; empty skips the firm")
	f.StringVar(&opts.Area, "area", "Indiranagar", "firm area")
	f.StringSliceVar(&opts.Categories, "category", []string{string(entity.CategoryVeg)}, "firm categories")
	f.StringSliceVar(&opts.Regions, "region", []string{string(entity.RegionSouthIndian)}, "firm regions")
	f.StringVar(&opts.Offer, "offer", "10% off on weekdays", "firm offer")
	return cmd
}

// seed registers the vendor (or reuses it by email) and creates the firm unless it exists.
func seed(ctx context.Context, vendors repository.VendorRepository, firms repository.FirmRepository, logger *logrus.Logger, opts seedOptions, out io.Writer) error {
	vendorSvc := &application.VendorService{Vendors: vendors, Firms: firms, Logger: logger}
	firmSvc := application.NewFirmService(firms, vendors, nil, nil, nil, nil, nil, logger)

	v, err := vendorSvc.Register(ctx, application.RegisterInput{Username: opts.Username, Email: opts.Email, Password: opts.Password})
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		v, err = vendors.GetByEmail(ctx, opts.Email)
		if err != nil {
			return fmt.Errorf("load vendor: %w", err)
		}
		fmt.Fprintf(out, "vendor exists: id=%s email=%s\n", v.ID, v.Email)
	case err != nil:
		return fmt.Errorf("seed vendor: %w", err)
	default:
		fmt.Fprintf(out, "seeded vendor: id=%s username=%s email=%s password=%s\n", v.ID, v.Username, v.Email, opts.Password)
	}

	if opts.FirmName == "" {
		return nil
	}
	firm, err := firmSvc.Create(ctx, v.ID, application.CreateFirmInput{
		Name:       opts.FirmName,
		Area:       opts.Area,
		Categories: opts.Categories,
		Regions:    opts.Regions,
		Offer:      opts.Offer,
	})
	if errors.Is(err, application.ErrFirmNameTaken) {
		fmt.Fprintf(out, "firm exists: name=%s\n", opts.FirmName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed firm: %w", err)
	}
	fmt.Fprintf(out, "seeded firm: id=%s name=%s vendor=%s\n", firm.ID, firm.Name, v.ID)
	return nil
}
