// Package httpapi exposes the public HTTP surface: registration, login,
// the bearer-token gate, the artist catalogue, and presigned-upload
// issuance. Handlers take their identity only from the value the auth
// middleware stored after verifying the token.
package httpapi

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feepo/feepo/internal/logging"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/feepo/feepo/internal/server/services"
)

// UserAuthenticator covers the account workflows the API needs.
type UserAuthenticator interface {
	Register(ctx context.Context, username, email, password string, profilePicURL *string) (*services.AuthResult, *services.RegistrationFlags, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Resolve(ctx context.Context, userID string) (*models.User, error)
}

// ArtistDirectory covers the artist catalogue and image mutations.
type ArtistDirectory interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Images(ctx context.Context, username string) ([]models.Image, error)
	AddImages(ctx context.Context, userID string, imgs []models.Image) ([]models.Image, error)
	SetProfilePic(ctx context.Context, userID, profilePicURL string) (*models.User, error)
}

// UploadSigner issues short-lived presigned S3 requests.
type UploadSigner interface {
	GetPresignedPutURL(ctx context.Context, fileName string) (key, url string, err error)
	GetPresignedPostData(ctx context.Context) (key, url string, fields map[string]string, err error)
}

type Server struct {
	address   string
	users     UserAuthenticator
	artists   ArtistDirectory
	uploads   UploadSigner
	publicKey *rsa.PublicKey
	logger    logging.Logger
}

func NewServer(address string, users UserAuthenticator, artists ArtistDirectory, uploads UploadSigner,
	publicKey *rsa.PublicKey, logger logging.Logger) *Server {
	return &Server{
		address:   address,
		users:     users,
		artists:   artists,
		uploads:   uploads,
		publicKey: publicKey,
		logger:    logger.With("module", "httpapi"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.POST("/signup", s.handleSignup)
	api.POST("/login", s.handleLogin)

	api.GET("/artists", s.handleListArtists)
	api.GET("/artists/:artist", s.handleGetArtist)
	api.GET("/artists/:artist/images", s.handleGetArtistImages)

	authed := api.Group("", s.requireAuth())
	authed.POST("/protected", s.handleProtected)
	authed.GET("/signedURL", s.handleSignedURL)
	authed.GET("/presignedPostData", s.handlePresignedPostData)
	authed.POST("/images", s.handleAddImages)
	authed.POST("/artists/:artist/profilePicURL", s.handleSetProfilePic)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
