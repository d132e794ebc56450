package api

import (
	"net/http"

	"github.com/Domenick1991/shahair/internal/service/directory"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service directory.DirectoryUseCase
}

type airportResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type listAirportsResponse struct {
	Status   int               `json:"status"`
	Airports []airportResponse `json:"airports"`
}

func NewAirportHandler(service directory.DirectoryUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("/airports", h.list)
}

func (h *AirportHandler) list(c *gin.Context) {
	airports, err := h.service.ListAirports(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := listAirportsResponse{Status: http.StatusOK, Airports: make([]airportResponse, 0, len(airports))}
	for _, a := range airports {
		resp.Airports = append(resp.Airports, airportResponse{Code: a.Code, Name: a.Name})
	}
	c.JSON(http.StatusOK, resp)
}
