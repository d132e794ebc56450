package api

import (
	"net/http"

	"github.com/Domenick1991/shahair/internal/service/directory"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service directory.DirectoryUseCase
}

type flightResponse struct {
	Code      string   `json:"code"`
	Duration  int      `json:"duration"`
	Time      int      `json:"time"`
	Business  bool     `json:"business"`
	EcoPrice  float64  `json:"eco_price"`
	BusPrice  *float64 `json:"bus_price,omitempty"`
	SeatsLeft int      `json:"seats_left"`
}

type searchFlightsResponse struct {
	Status  int              `json:"status"`
	Flights []flightResponse `json:"flights"`
}

func NewFlightHandler(service directory.DirectoryUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.search)
}

func (h *FlightHandler) search(c *gin.Context) {
	results, err := h.service.SearchFlights(c.Request.Context(),
		c.Query("date"), c.Query("source"), c.Query("destination"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := searchFlightsResponse{Status: http.StatusOK, Flights: make([]flightResponse, 0, len(results))}
	for _, r := range results {
		resp.Flights = append(resp.Flights, flightResponse{
			Code:      r.Flight.ID,
			Duration:  r.Flight.Duration,
			Time:      r.Flight.Time,
			Business:  r.Flight.Business,
			EcoPrice:  r.Flight.EcoPrice,
			BusPrice:  r.Flight.BusPrice,
			SeatsLeft: r.SeatsLeft,
		})
	}
	c.JSON(http.StatusOK, resp)
}
