package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appMol "github.com/turtacn/molmatch/internal/application/molecule"
	mtypes "github.com/turtacn/molmatch/pkg/types/molecule"
)

// MoleculeHandler serves the molecule registry.
type MoleculeHandler struct {
	svc appMol.Service
}

func NewMoleculeHandler(svc appMol.Service) *MoleculeHandler {
	return &MoleculeHandler{svc: svc}
}

// Register attaches the routes to rg.
func (h *MoleculeHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/molecules", h.Create)
	rg.GET("/molecules", h.List)
	rg.GET("/molecules/:id", h.Get)
	rg.DELETE("/molecules/:id", h.Delete)
}

func (h *MoleculeHandler) Create(c *gin.Context) {
	var graph mtypes.MoleculeGraphDTO
	if !bindJSON(c, &graph) {
		return
	}
	summary, err := h.svc.Create(c.Request.Context(), graph)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/v1/molecules/"+summary.ID)
	respond(c, http.StatusCreated, summary)
}

func (h *MoleculeHandler) Get(c *gin.Context) {
	graph, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, graph)
}

func (h *MoleculeHandler) List(c *gin.Context) {
	page, size := parsePagination(c)
	res, err := h.svc.List(c.Request.Context(), &appMol.ListInput{Page: page, PageSize: size})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *MoleculeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//Personal.AI order the ending
