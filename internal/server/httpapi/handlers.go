package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feepo/feepo/internal/common"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/feepo/feepo/internal/server/services"
)

// userPayload is the only user shape ever serialized. Hash and salt
// stay server-side.
type userPayload struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	ProfilePicURL *string `json:"profilePicURL"`
}

func newUserPayload(u *models.User) userPayload {
	return userPayload{
		Username:      u.Username,
		Email:         u.Email,
		ProfilePicURL: u.ProfilePicURL,
	}
}

func authSuccessBody(res *services.AuthResult) gin.H {
	return gin.H{
		"err":       nil,
		"user":      newUserPayload(res.User),
		"token":     res.Token,
		"expiresIn": res.ExpiresIn,
	}
}

func authFailureBody(err any) gin.H {
	return gin.H{
		"err":       err,
		"user":      nil,
		"token":     nil,
		"expiresIn": nil,
	}
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"err": gin.H{"msg": "Internal Server Error"}})
}

type signupRequest struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	ProfilePicURL *string `json:"profilePicURL"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusNotFound, authFailureBody(&services.RegistrationFlags{}))
		return
	}

	res, flags, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ProfilePicURL)
	if err != nil {
		s.logger.Error(c.Request.Context(), "signup failed", "error", err)
		internalError(c)
		return
	}
	if flags != nil {
		c.JSON(http.StatusNotFound, authFailureBody(flags))
		return
	}

	c.JSON(http.StatusOK, authSuccessBody(res))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, authFailureBody(gin.H{"msg": "Invalid email or password"}))
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, authFailureBody(gin.H{"msg": "Invalid email or password"}))
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, authSuccessBody(res))
}

func (s *Server) handleProtected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"msg":     "You are successfully authenticated to this route!",
	})
}

func (s *Server) handleSignedURL(c *gin.Context) {
	fileName := c.Query("fileName")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": gin.H{"msg": "fileName is required"}})
		return
	}

	_, url, err := s.uploads.GetPresignedPutURL(c.Request.Context(), fileName)
	if err != nil {
		s.logger.Error(c.Request.Context(), "presigned PUT failed", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploadURL": url})
}

func (s *Server) handlePresignedPostData(c *gin.Context) {
	key, url, fields, err := s.uploads.GetPresignedPostData(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "presigned POST failed", "error", err)
		internalError(c)
		return
	}
	if _, ok := fields["key"]; !ok {
		fields["key"] = key
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "fields": fields})
}

func (s *Server) handleListArtists(c *gin.Context) {
	artists, err := s.artists.List(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "artist listing failed", "error", err)
		internalError(c)
		return
	}

	payloads := make([]userPayload, 0, len(artists))
	for _, a := range artists {
		payloads = append(payloads, newUserPayload(a))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "artists": payloads})
}

func (s *Server) handleGetArtist(c *gin.Context) {
	artist, err := s.artists.Get(c.Request.Context(), c.Param("artist"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "artist": nil})
			return
		}
		s.logger.Error(c.Request.Context(), "artist lookup failed", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "artist": newUserPayload(artist)})
}

func (s *Server) handleGetArtistImages(c *gin.Context) {
	imgs, err := s.artists.Images(c.Request.Context(), c.Param("artist"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "artist image listing failed", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": imgs})
}

type addImagesRequest struct {
	Images []models.Image `json:"images"`
}

func (s *Server) handleAddImages(c *gin.Context) {
	user, ok := identityFrom(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req addImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": gin.H{"msg": "images are required"}, "images": nil})
		return
	}

	imgs, err := s.artists.AddImages(c.Request.Context(), user.ID, req.Images)
	if err != nil {
		s.logger.Error(c.Request.Context(), "image append failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": gin.H{"msg": "Internal server error"}, "images": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"err": nil, "images": imgs})
}

type setProfilePicRequest struct {
	ProfilePicURL string `json:"profilePicURL"`
}

func (s *Server) handleSetProfilePic(c *gin.Context) {
	user, ok := identityFrom(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req setProfilePicRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProfilePicURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": gin.H{"msg": "profilePicURL is required"}, "user": nil})
		return
	}

	updated, err := s.artists.SetProfilePic(c.Request.Context(), user.ID, req.ProfilePicURL)
	if err != nil {
		s.logger.Error(c.Request.Context(), "profile picture update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": gin.H{"msg": "Internal server error"}, "user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"err": nil, "user": newUserPayload(updated)})
}
