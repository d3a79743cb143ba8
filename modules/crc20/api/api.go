package api

import (
	"github.com/gaze-network/crc20-resolver/modules/crc20/api/httphandler"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase) *httphandler.HttpHandler {
	return httphandler.New(usecase)
}
