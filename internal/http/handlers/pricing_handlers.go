package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

// GetPriceQuoteHandler godoc
// @Summary Price a size, format and set type
// @Tags pricing
// @Produce json
// @Param size query string true "Size, e.g. 8 x 12"
// @Param format query string true "Rolled, Canvas or Frame"
// @Param set query string false "Basic, 2-Set, 3-Set or Square"
// @Success 200 {object} pricing.Quote
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {object} pricing.Quote
// @Router /pricing/quote [get]
func (s *Server) GetPriceQuoteHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.writeQuote(w, q.Get("size"), q.Get("format"), q.Get("set"))
}

// GetPriceTablesHandler godoc
// @Summary The Basic, 2-Set and 3-Set price tables
// @Tags pricing
// @Produce json
// @Success 200 {array} object
// @Router /pricing/tables [get]
func (s *Server) GetPriceTablesHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, pricing.Tables())
}

func (s *Server) writeQuote(w http.ResponseWriter, size, format, set string) {
	if size == "" {
		http.Error(w, "size is required", http.StatusBadRequest)
		return
	}
	f, err := pricing.ParseFormat(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	setType, err := pricing.ParseSetType(set)
	if err != nil {
		// Unknown set types price as Basic.
		setType = pricing.Basic
	}

	quote := pricing.QuoteFor(size, f, setType)
	status := http.StatusOK
	if !quote.Available {
		status = http.StatusConflict
	}
	s.respond(w, status, quote)
}
