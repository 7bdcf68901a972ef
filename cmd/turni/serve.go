package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ukaji3/turni-go/internal/server"
	"github.com/ukaji3/turni-go/pkg/turni/metrics"
)

func newServeCmd() *cobra.Command {
	var addr, uploadDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload/download HTTP interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("upload-dir") {
				cfg.UploadDir = uploadDir
			}
			if cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			srv, err := server.New(cfg, logger, metrics.NewRecorder())
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5001", "Listen address")
	cmd.Flags().StringVar(&uploadDir, "upload-dir", "uploads", "Directory for upload sessions")
	return cmd
}
