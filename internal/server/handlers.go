// HTTP handlers. Each one parses the request, delegates to the action
// layer, and writes the envelope; no business logic lives here.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venturelab/workbench/internal/actions"
	"github.com/venturelab/workbench/pkg/types"
)

// refParam builds the entity reference from the :type and :id path params.
func refParam(c *gin.Context) types.EntityRef {
	return types.EntityRef{Type: c.Param("type"), ID: c.Param("id")}
}

// badRequest writes a VALIDATION_ERROR envelope for an unparseable body.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.Fail(types.CodeValidationError, "invalid request body: "+err.Error()))
}

func (s *Server) createEntity(c *gin.Context) {
	var in actions.CreateEntityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.CreateEntity(c.Request.Context(), in))
}

func (s *Server) listEntities(c *gin.Context) {
	respond(c, s.actions.ListEntities(c.Request.Context(), c.Param("type"), c.Query("status")))
}

func (s *Server) getEntity(c *gin.Context) {
	respond(c, s.actions.GetEntity(c.Request.Context(), refParam(c)))
}

func (s *Server) updateEntity(c *gin.Context) {
	var in actions.CreateEntityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.UpdateEntity(c.Request.Context(), refParam(c), in))
}

func (s *Server) deleteEntity(c *gin.Context) {
	respond(c, s.actions.DeleteEntity(c.Request.Context(), refParam(c)))
}

func (s *Server) relationships(c *gin.Context) {
	respond(c, s.actions.Relationships(c.Request.Context(), refParam(c)))
}

// slotRequest addresses one relationship slot plus a desired id list.
type slotRequest struct {
	LinkType  string   `json:"link_type"`
	OtherType string   `json:"other_type"`
	IDs       []string `json:"ids"`
}

func (s *Server) updateLinks(c *gin.Context) {
	var in slotRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res := s.actions.UpdateEntityLinks(c.Request.Context(), refParam(c), in.LinkType, in.OtherType, in.IDs)
	outcome := "ok"
	if !res.Success {
		outcome = "error"
	}
	linkSyncsTotal.WithLabelValues(outcome).Inc()
	respond(c, res)
}

// addLinkRequest is one link addition inside a slot.
type addLinkRequest struct {
	LinkType  string `json:"link_type"`
	OtherType string `json:"other_type"`
	OtherID   string `json:"other_id"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) addLink(c *gin.Context) {
	var in addLinkRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.AddLink(c.Request.Context(), refParam(c), in.LinkType, in.OtherType, in.OtherID, in.Notes))
}

func (s *Server) removeLink(c *gin.Context) {
	respond(c, s.actions.RemoveLink(c.Request.Context(), refParam(c), c.Param("linkID")))
}

func (s *Server) reorderLinks(c *gin.Context) {
	var in slotRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.ReorderLinks(c.Request.Context(), refParam(c), in.LinkType, in.OtherType, in.IDs))
}

func (s *Server) listEvidence(c *gin.Context) {
	respond(c, s.actions.ListEvidence(c.Request.Context(), refParam(c)))
}

func (s *Server) addEvidence(c *gin.Context) {
	var in types.PendingEvidence
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.AddEvidence(c.Request.Context(), refParam(c), in))
}

func (s *Server) listFeedback(c *gin.Context) {
	respond(c, s.actions.ListFeedback(c.Request.Context(), refParam(c)))
}

func (s *Server) addFeedback(c *gin.Context) {
	var in types.PendingFeedback
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.AddFeedback(c.Request.Context(), refParam(c), in))
}

// orderRequest carries the full ordered sibling id list.
type orderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) reorderStages(c *gin.Context) {
	var in orderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.ReorderJourneyStages(c.Request.Context(), c.Param("id"), in.IDs))
}

// moveRequest carries a relative position shift.
type moveRequest struct {
	Offset int `json:"offset"`
}

func (s *Server) moveStage(c *gin.Context) {
	var in moveRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.MoveJourneyStage(c.Request.Context(), c.Param("id"), c.Param("stageID"), in.Offset))
}

func (s *Server) reorderTouchpoints(c *gin.Context) {
	var in orderRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.ReorderTouchpoints(c.Request.Context(), c.Param("id"), in.IDs))
}

func (s *Server) moveTouchpoint(c *gin.Context) {
	var in moveRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, s.actions.MoveTouchpoint(c.Request.Context(), c.Param("id"), c.Param("touchpointID"), in.Offset))
}
