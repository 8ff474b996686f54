package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festpass/festpass-api/internal/api/handler/v1/response"
	"github.com/festpass/festpass-api/internal/config"
)

type SystemHandler struct {
	conf *config.APIConfig
}

func NewSystemHandler(conf *config.APIConfig) *SystemHandler {
	return &SystemHandler{
		conf: conf,
	}
}

// HandleHealthcheck godoc
// @Summary      Report service liveness
// @Tags         system
// @Produce      json
// @Success      200      {object}   response.MessageResponse
// @Router       /healthcheck [get]
func (h *SystemHandler) HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "ok"})
}

// HandleConfig godoc
// @Summary      Expose the public checkout settings the frontend needs
// @Tags         system
// @Produce      json
// @Success      200      {object}   response.ConfigResponse
// @Router       /config [get]
func (h *SystemHandler) HandleConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.ConfigResponse{
		UPIID:        h.conf.UPIID,
		MerchantName: h.conf.MerchantName,
	})
}
