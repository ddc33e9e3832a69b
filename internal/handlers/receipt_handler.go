package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "kaihelper/internal/errors"
	"kaihelper/internal/services"
)

// maxReceiptSize caps uploaded receipt images at 10 MiB.
const maxReceiptSize = 10 << 20

// ReceiptHandler handles receipt upload and processing requests.
type ReceiptHandler struct {
	receiptService services.ReceiptServicer
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService services.ReceiptServicer) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// UploadReceipt handles a multipart receipt image upload and runs the full
// import pipeline.
// @Summary     Upload a receipt
// @Description Upload a receipt image; extracts structured data, records an expense, and saves line items
// @Tags        receipts
// @Accept      multipart/form-data
// @Produce     json
// @Param       user_id formData int  true "User ID"
// @Param       file    formData file true "Receipt image (JPEG, PNG, GIF, or WebP)"
// @Success     200 {object} Response "Receipt processed"
// @Failure     400 {object} ErrorResponse "Invalid image, extraction failure, or insufficient budget"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /receipts/upload [post]
func (h *ReceiptHandler) UploadReceipt(c *gin.Context) {
	userID, err := strconv.ParseUint(c.PostForm("user_id"), 10, 32)
	if err != nil || userID == 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid user_id"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Receipt file is required"))
		return
	}
	if fileHeader.Size > maxReceiptSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Receipt file is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer func() { _ = file.Close() }()

	imageBytes, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	summary, err := h.receiptService.ProcessReceipt(c.Request.Context(), uint(userID), imageBytes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "Receipt processed successfully.", summary)
}
