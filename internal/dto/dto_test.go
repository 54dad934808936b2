package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

func validStudent() StudentRequest {
	return StudentRequest{
		LastName:   "Dupont",
		FirstName:  "Zoé",
		BirthDate:  domain.MustParseDate("2001-05-04"),
		BirthPlace: "Lyon",
		Sex:        "F",
		Phone:      "+41 22 123 45 67",
		Email:      "zoe@example.com",
		Country:    "France",
	}
}

func TestStudentRequestValidation(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(validStudent()))

	bad := validStudent()
	bad.LastName = "D"
	assert.Error(t, v.Struct(bad))

	bad = validStudent()
	bad.Phone = "abc"
	assert.Error(t, v.Struct(bad))

	postcode := "12"
	bad = validStudent()
	bad.Postcode = &postcode
	assert.Error(t, v.Struct(bad))

	number := "12b"
	bad = validStudent()
	bad.StreetNumber = &number
	assert.Error(t, v.Struct(bad))

	hyphenated := validStudent()
	hyphenated.LastName = "Le Blanc-d'Arc"
	assert.NoError(t, v.Struct(hyphenated))
}

func TestPaymentRequestValidation(t *testing.T) {
	v := NewValidator()
	method := domain.MethodCard

	assert.NoError(t, v.Struct(PaymentRequest{Amount: domain.MustParseMoney("10"), Channel: domain.ChannelPersonal, Method: &method}))
	assert.NoError(t, v.Struct(PaymentRequest{Amount: domain.MustParseMoney("10"), Channel: domain.ChannelCAF}))

	unknown := domain.PaymentMethod("CHEQUE")
	assert.Error(t, v.Struct(PaymentRequest{Channel: domain.ChannelPersonal, Method: &unknown}))
	assert.Error(t, v.Struct(PaymentRequest{Channel: "FRIEND"}))
}

func TestAttendanceSheetRequestValidation(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(AttendanceSheetRequest{Month: 2, Year: 2025}))
	assert.Error(t, v.Struct(AttendanceSheetRequest{Month: 13, Year: 2025}))
	assert.Error(t, v.Struct(AttendanceSheetRequest{Month: 2, Year: 2019}))
}

func TestInvoiceRequestRequiresLineItems(t *testing.T) {
	v := NewValidator()

	assert.Error(t, v.Struct(CreateInvoiceRequest{}))
	assert.Error(t, v.Struct(CreateInvoiceRequest{LineItems: []domain.LineItem{{Amount: domain.MustParseMoney("10")}}}))
	assert.NoError(t, v.Struct(CreateInvoiceRequest{LineItems: []domain.LineItem{{Description: "Cours A1", Amount: domain.MustParseMoney("10")}}}))
}
