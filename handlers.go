package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tinigom/models"
	"tinigom/pkg/progress"
	"tinigom/pkg/quotes"
	"tinigom/storage"
)

// Server holds the injected dependencies for all handlers.
type Server struct {
	store  *storage.DB
	quotes *quotes.Service
}

// NewServer builds a Server over the persistence gateway and quote service.
func NewServer(store *storage.DB, qs *quotes.Service) *Server {
	return &Server{store: store, quotes: qs}
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/transactions", s.listTransactionsHandler)
	r.POST("/transactions", s.createTransactionHandler)
	r.DELETE("/transactions", s.deleteTransactionHandler)
	r.GET("/settings", s.getSettingsHandler)
	r.PUT("/settings", s.updateSettingsHandler)
	r.GET("/todos", s.listTodosHandler)
	r.POST("/todos", s.createTodoHandler)
	r.PUT("/todos", s.updateTodoHandler)
	r.DELETE("/todos", s.deleteTodoHandler)
	r.GET("/motivational-quote", s.quoteHandler)
	r.GET("/progress", s.progressHandler)
	r.POST("/invoice", s.invoiceHandler)
	r.GET("/test-connection", s.testConnectionHandler)
}

// listTransactionsHandler returns transactions newest first. Optional query
// filters: type, user, month (1-12), limit.
func (s *Server) listTransactionsHandler(c *gin.Context) {
	var f storage.TransactionFilter
	f.Type = c.Query("type")
	f.User = c.Query("user")
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
			return
		}
		f.Month = m
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		f.Limit = n
	}
	txs, err := s.store.ListTransactions(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (s *Server) createTransactionHandler(c *gin.Context) {
	var req struct {
		Amount   json.Number `json:"amount"`
		Type     string      `json:"type"`
		Category string      `json:"category"`
		Reason   string      `json:"reason"`
		User     string      `json:"user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount == "" || req.Type == "" || req.User == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: amount, type, user"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}
	if !models.ValidTransactionType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction type"})
		return
	}
	if !models.ValidUser(req.User) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user"})
		return
	}

	tx := models.Transaction{
		Amount:   amount,
		Type:     req.Type,
		Category: req.Category,
		Reason:   req.Reason,
		User:     req.User,
		Date:     time.Now(),
	}
	if err := s.store.CreateTransaction(&tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

func (s *Server) deleteTransactionHandler(c *gin.Context) {
	id, ok := idQuery(c, "Transaction ID required")
	if !ok {
		return
	}
	if err := s.store.DeleteTransaction(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) getSettingsHandler(c *gin.Context) {
	settings, err := s.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (s *Server) updateSettingsHandler(c *gin.Context) {
	var req struct {
		SavingsGoal     json.Number `json:"savings_goal"`
		TargetMonths    *int        `json:"target_months"`
		TargetStartDate *time.Time  `json:"target_start_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := decimal.NewFromString(req.SavingsGoal.String())
	if err != nil || !goal.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid savings goal"})
		return
	}
	// The target window is a pair: both set or both absent.
	if (req.TargetMonths == nil) != (req.TargetStartDate == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_months and target_start_date must be set together"})
		return
	}
	if req.TargetMonths != nil && *req.TargetMonths <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_months must be positive"})
		return
	}

	settings, err := s.store.UpdateSettings(storage.SettingsUpdate{
		SavingsGoal:     goal,
		TargetMonths:    req.TargetMonths,
		TargetStartDate: req.TargetStartDate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (s *Server) listTodosHandler(c *gin.Context) {
	todos, err := s.store.ListTodos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (s *Server) createTodoHandler(c *gin.Context) {
	var req struct {
		Text       string `json:"text"`
		AssignedTo string `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}
	if !models.ValidUserCode(req.AssignedTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid assigned_to (N or K) is required"})
		return
	}
	todo := models.Todo{Text: text, AssignedTo: req.AssignedTo}
	if err := s.store.CreateTodo(&todo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (s *Server) updateTodoHandler(c *gin.Context) {
	var req struct {
		ID        uint  `json:"id"`
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Todo ID is required"})
		return
	}
	todo, err := s.store.UpdateTodo(req.ID, req.Completed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (s *Server) deleteTodoHandler(c *gin.Context) {
	id, ok := idQuery(c, "Todo ID is required")
	if !ok {
		return
	}
	if err := s.store.DeleteTodo(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// quoteHandler serves the motivational quote for the configured strategy.
// Quote failures never produce an error status: the fallback text is
// returned with a diagnostic field instead.
func (s *Server) quoteHandler(c *gin.Context) {
	// Progress context for the prompts. Snapshot failures degrade to
	// zero progress rather than failing the quote.
	goal := models.DefaultSavingsGoal
	var txs []models.Transaction
	if settings, err := s.store.GetSettings(); err == nil {
		goal = settings.SavingsGoal
	}
	if list, err := s.store.ListTransactions(storage.TransactionFilter{}); err == nil {
		txs = list
	}
	totals := progress.UserTotals(txs)

	if s.quotes.Mode() == quotes.ModeDual {
		pcts := make(map[string]float64, len(totals))
		for user, total := range totals {
			if pct, err := progress.Contribution(total, goal); err == nil {
				pcts[user] = pct
			}
		}
		res := s.quotes.Dual(c.Request.Context(), pcts)
		body := gin.H{
			"nuone_quote": res.NuoneQuote,
			"kate_quote":  res.KateQuote,
			"generated":   res.Generated,
			"fallback":    res.Fallback,
			"created_at":  res.CreatedAt,
		}
		if res.Diagnostic != "" {
			body["error"] = res.Diagnostic
		}
		c.JSON(http.StatusOK, body)
		return
	}

	pct, err := progress.Percentage(progress.GrandTotal(totals), goal)
	if err != nil {
		pct = 0
	}
	res := s.quotes.Shared(c.Request.Context(), pct)
	body := gin.H{
		"quote":     res.Quote,
		"cached":    res.Cached,
		"generated": res.Generated,
		"fallback":  res.Fallback,
	}
	if res.ExpiresAt != nil {
		body["expires_at"] = res.ExpiresAt
	}
	if res.Diagnostic != "" {
		body["error"] = res.Diagnostic
	}
	c.JSON(http.StatusOK, body)
}

// progressHandler reports the derived dashboard figures: totals,
// percentages, and the prediction when a target window is configured.
func (s *Server) progressHandler(c *gin.Context) {
	settings, err := s.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	txs, err := s.store.ListTransactions(storage.TransactionFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totals := progress.UserTotals(txs)
	grand := progress.GrandTotal(totals)
	pct, err := progress.Percentage(grand, settings.SavingsGoal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	contributions := make(map[string]float64, len(totals))
	for user, total := range totals {
		cp, err := progress.Contribution(total, settings.SavingsGoal)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		contributions[user] = cp
	}

	body := gin.H{
		"user_totals":         totals,
		"grand_total":         grand,
		"progress_percentage": pct,
		"contributions":       contributions,
		"savings_goal":        settings.SavingsGoal,
	}
	if settings.TargetMonths != nil && settings.TargetStartDate != nil {
		now := time.Now()
		pred := progress.MonthlyPrediction(txs, settings.SavingsGoal, grand, *settings.TargetMonths, *settings.TargetStartDate, now)
		if pred != nil {
			body["prediction"] = pred
			body["success_likelihood"] = progress.SuccessLikelihood(pred, grand, settings.SavingsGoal, *settings.TargetMonths, *settings.TargetStartDate, now)
		}
	}
	c.JSON(http.StatusOK, body)
}

// testConnectionHandler checks storage reachability end to end: ping,
// table reads, and a write probe that is deleted again.
func (s *Server) testConnectionHandler(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Database connection failed",
			"details": err.Error(),
		})
		return
	}

	_, countErr := s.store.CountTransactions()
	settings, settingsErr := s.store.GetSettings()

	probe := models.Transaction{
		Amount:   decimal.NewFromFloat(0.01),
		Type:     models.TypeIncome,
		Category: "Connection Test",
		User:     models.UserNuone,
		Date:     time.Now(),
	}
	writeOK := s.store.CreateTransaction(&probe) == nil
	if writeOK {
		_ = s.store.DeleteTransaction(probe.ID)
	}

	details := gin.H{
		"transaction_table_exists": countErr == nil,
		"settings_table_exists":    settingsErr == nil,
		"write_permissions":        writeOK,
		"timestamp":                time.Now(),
	}
	if settings != nil {
		details["current_savings_goal"] = settings.SavingsGoal
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connection successful!",
		"details": details,
	})
}

// idQuery parses the required id query param, answering 400 itself when
// missing or malformed.
func idQuery(c *gin.Context, missingMsg string) (uint, bool) {
	v := c.Query("id")
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingMsg})
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
