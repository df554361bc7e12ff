package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monambengouta/we-settle/internal/services"
	"github.com/monambengouta/we-settle/pkg/response"
)

// InscriptionHandler exposes the inscription lifecycle over HTTP.
type InscriptionHandler struct {
	inscriptions *services.InscriptionService
}

// NewInscriptionHandler constructs an InscriptionHandler.
func NewInscriptionHandler(inscriptions *services.InscriptionService) *InscriptionHandler {
	return &InscriptionHandler{inscriptions: inscriptions}
}

// Validate marks the inscription as validated and sends the confirmation email.
func (h *InscriptionHandler) Validate(c *gin.Context) {
	result, err := h.inscriptions.Validate(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// IssueToken issues or refreshes the inscription's bearer token and emails it.
func (h *InscriptionHandler) IssueToken(c *gin.Context) {
	result, err := h.inscriptions.IssueToken(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Get returns a single inscription.
func (h *InscriptionHandler) Get(c *gin.Context) {
	inscription, err := h.inscriptions.GetByID(requestContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, inscription)
}

// List returns every inscription. The route sits behind the access guard.
func (h *InscriptionHandler) List(c *gin.Context) {
	inscriptions, err := h.inscriptions.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, inscriptions)
}
