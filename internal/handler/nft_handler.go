package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovibe/internal/service"
)

// NFTHandler answers holder checks against Solana.
type NFTHandler struct {
	nftService service.NFTService
}

// NewNFTHandler creates a new NFT handler.
func NewNFTHandler(nftService service.NFTService) *NFTHandler {
	return &NFTHandler{nftService: nftService}
}

// Holder godoc
// @Summary Check NFT ownership
// @Tags nft
// @Produce json
// @Security BearerAuth
// @Param owner query string true "Wallet address"
// @Param mint query string true "Mint address"
// @Success 200 {object} service.HolderStatus
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /nft/holder [get]
func (h *NFTHandler) Holder(c echo.Context) error {
	owner := c.QueryParam("owner")
	mint := c.QueryParam("mint")
	if owner == "" || mint == "" {
		return badRequest("owner and mint are required")
	}

	status, err := h.nftService.CheckHolder(c.Request().Context(), owner, mint)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, status)
}
