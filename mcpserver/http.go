package mcpserver

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// HTTPConfig configures the single POST /mcp endpoint Serve exposes. When
// CertFile and KeyFile are both set the listener speaks TLS; when
// ClientCAFile is additionally set it requires and verifies a client
// certificate (mTLS), mirroring the bind/cert/key/client-ca flags of the
// prototype this engine replaces.
type HTTPConfig struct {
	Addr         string
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

// Serve runs the MCP JSON-RPC endpoint until ctx is cancelled.
func Serve(ctx context.Context, srv *Server, cfg HTTPConfig) error {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.POST("/mcp", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, jsonRPCResponse{JSONRPC: "2.0", Error: &jsonRPCError{Code: errCodeParse, Message: "could not read request body"}})
			return
		}
		resp := srv.Handle(c.Request.Context(), body)
		if resp == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: engine,
	}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		tlsConfig, err := buildTLSConfig(cfg)
		if err != nil {
			return err
		}
		httpSrv.TLSConfig = tlsConfig
	}

	errc := make(chan error, 1)
	go func() {
		var err error
		if httpSrv.TLSConfig != nil {
			err = httpSrv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		return httpSrv.Close()
	case err := <-errc:
		return err
	}
}

func buildTLSConfig(cfg HTTPConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if cfg.ClientCAFile == "" {
		return tlsConfig, nil
	}

	caPEM, err := os.ReadFile(cfg.ClientCAFile)
	if err != nil {
		return nil, fmt.Errorf("reading client CA file %s: %w", cfg.ClientCAFile, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", cfg.ClientCAFile)
	}

	tlsConfig.ClientCAs = pool
	tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	return tlsConfig, nil
}
