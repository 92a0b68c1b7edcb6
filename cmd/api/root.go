package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"identity-api/internal/config"
)

var envFile string

// NewRootCmd crea el comando raíz; sin subcomando levanta el servidor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "identity-api",
		Short:        "Identity API: registro, login y resolución de bearer tokens",
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env a cargar antes de leer la configuración")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadRuntime carga .env, la configuración y el logger compartidos por los subcomandos.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("warning: loading %s: %v", envFile, err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
		logger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
