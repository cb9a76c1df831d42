package services_test

import (
	"github.com/5280sourcegroup/website/internal/models"
	"github.com/5280sourcegroup/website/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func validRequest() *models.QuoteRequest {
	return &models.QuoteRequest{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@acme.com",
		Phone:       "5551234567",
		CompanyName: "Acme",
		JobTitle:    "PM",
		Industry:    "Construction",
		Message:     "Need 50 sheets of drywall and 200 2x4 studs.",
	}
}

func pdfAttachment() *models.QuoteAttachment {
	data := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	return &models.QuoteAttachment{
		FileName:    "Drywall BOM.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(data)),
		Data:        data,
	}
}
