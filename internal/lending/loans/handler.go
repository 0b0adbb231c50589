package loans

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"biblios-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// 1. Loan resource
	r.POST("/loans", h.CreateLoan)
	// "my loans" view; ?active=true narrows to open loans
	r.GET("/loans/mine", h.ListMyLoans)
	// administrative list over everything
	r.GET("/loans", auth.RequireRole("admin"), h.ListAllLoans)

	// 2. Book-centric status (catalog pages ask "can I rent this?")
	r.GET("/books/:book_id/status", h.GetBookStatus)

	// 3. Returns as an independent resource
	r.POST("/returns", h.CreateReturn)
}

// ---------- handlers ----------

func (h *Handler) CreateLoan(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.CreateLoan(c.Request.Context(), c.GetString(auth.CtxBorrowerIDKey), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.Header("Location", "/loans/"+res.LoanID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) CreateReturn(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}

	if err := h.svc.ReturnLoan(c.Request.Context(), req.LoanID); err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "returned"})
}

func (h *Handler) GetBookStatus(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid book_id"))
		return
	}

	res, err := h.svc.GetBookStatus(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListMyLoans(c *gin.Context) {
	onlyActive := false
	if v := c.Query("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			onlyActive = b
		}
	}

	res, err := h.svc.GetBorrowerLoans(c.Request.Context(), c.GetString(auth.CtxBorrowerIDKey), onlyActive)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListAllLoans(c *gin.Context) {
	res, err := h.svc.ListAllLoans(c.Request.Context())
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

type errorDTO struct {
	Error struct {
		Code     Code   `json:"code"`
		Message  string `json:"message"`
		Borrower string `json:"borrower,omitempty"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	if api, ok := err.(*APIError); ok {
		e := errorBody(api.Code, api.Message)
		e.Error.Borrower = api.Borrower
		return e
	}
	return errorBody(CodeInternal, err.Error())
}
