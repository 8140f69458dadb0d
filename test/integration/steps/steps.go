// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/usecase/recurrence"
	"github.com/budget-tracker/backend/internal/infra/dependency"
	"github.com/budget-tracker/backend/internal/infra/server/router"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/event"
	"github.com/budget-tracker/backend/internal/integration/lock"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
	"github.com/budget-tracker/backend/test/integration/mock"
)

const (
	testJWTSecret  = "test-jwt-secret-key-for-testing-purposes"
	testCronSecret = "test-cron-secret"
)

type testContext struct {
	uri               string
	headers           map[string]string
	client            *http.Client
	response          *response
	db                *mock.Db
	redis             *redis.Client
	accessToken       string
	currentUserID     uuid.UUID
	currentWalletID   uuid.UUID
	currentCategoryID uuid.UUID
	currentRuleID     uuid.UUID
	lastTransactionID uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	serverURI      string
	serverStartErr error
	testClock      = mock.NewTime()
)

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		redis:  mock.NewRedis(),
		db:     mock.NewDb("budget_tracker", model.All()),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^today is "([^"]*)"$`, test.todayIs)

	// Setup steps
	ctx.Given(`^I am authenticated as a new user$`, test.iAmAuthenticatedAsANewUser)
	ctx.Given(`^I have a wallet named "([^"]*)"$`, test.iHaveAWalletNamed)
	ctx.Given(`^I use the "([^"]*)" category$`, test.iUseTheCategory)
	ctx.Given(`^the recurring batch lock is held by another run$`, test.theRecurringBatchLockIsHeld)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the recurring batch runs on "([^"]*)"$`, test.theRecurringBatchRunsOn)
	ctx.When(`^the recurring batch runs daily from "([^"]*)" to "([^"]*)"$`, test.theRecurringBatchRunsDailyFromTo)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^the wallet balance should be "([^"]*)"$`, test.theWalletBalanceShouldBe)
	ctx.Then(`^the wallet balance should match its ledger$`, test.theWalletBalanceShouldMatchItsLedger)
}

func findAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.currentUserID = uuid.Nil
	t.currentWalletID = uuid.Nil
	t.currentCategoryID = uuid.Nil
	t.currentRuleID = uuid.Nil
	t.lastTransactionID = uuid.Nil
	testClock.SetCurrentTime(time.Now())

	if err := mock.ClearRedis(t.redis); err != nil {
		return err
	}
	return t.db.ClearDB()
}

func (t *testContext) startServer() error {
	serverInit.Do(func() {
		port, err := findAvailablePort()
		if err != nil {
			serverStartErr = err
			return
		}
		serverURI = fmt.Sprintf("http://127.0.0.1:%d", port)

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.Recurring.CronSecret = testCronSecret

		externals := &dependency.Externals{
			Redis:     t.redis,
			Locker:    lock.NewRedisLocker(t.redis),
			Publisher: event.NoopPublisher{},
		}
		injector := dependency.NewInjector(cfg, t.db.DbConn, externals, testClock)
		engine := injector.Router.Setup("test")

		server := &http.Server{
			Addr:    fmt.Sprintf("127.0.0.1:%d", port),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if serverStartErr != nil {
		return serverStartErr
	}
	t.uri = serverURI

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.New("test server did not become ready")
}

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

func parseDay(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// todayIs moves the clock to early morning of the given day.
func (t *testContext) todayIs(day string) error {
	parsed, err := parseDay(day)
	if err != nil {
		return err
	}
	testClock.SetCurrentTime(parsed.Add(2 * time.Hour))
	return nil
}

func (t *testContext) iAmAuthenticatedAsANewUser() error {
	t.currentUserID = uuid.New()
	token, err := adapters.NewTokenService(testJWTSecret, time.Hour).
		GenerateAccessToken(context.Background(), t.currentUserID, "owner@example.com")
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) iHaveAWalletNamed(name string) error {
	body, _ := json.Marshal(map[string]string{"name": name})
	if err := t.executeRequest(http.MethodPost, "/api/v1/wallets", body); err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("wallet creation failed with status %d: %v", t.response.status, t.response.body)
	}
	if t.currentWalletID == uuid.Nil {
		return errors.New("wallet ID not captured from response")
	}
	return nil
}

func (t *testContext) iUseTheCategory(name string) error {
	var category model.CategoryModel
	err := t.db.DbConn.
		Where("wallet_id = ? AND name = ?", t.currentWalletID, name).
		First(&category).Error
	if err != nil {
		return fmt.Errorf("category %q not found in wallet: %w", name, err)
	}
	t.currentCategoryID = category.ID
	return nil
}

func (t *testContext) theRecurringBatchLockIsHeld() error {
	return t.redis.Set(context.Background(), recurrence.DefaultBatchLockKey, "another-run", time.Minute).Err()
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = t.replacePlaceholders(value)
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) theRecurringBatchRunsOn(day string) error {
	if err := t.todayIs(day); err != nil {
		return err
	}
	return t.triggerBatch()
}

func (t *testContext) theRecurringBatchRunsDailyFromTo(from, to string) error {
	start, err := parseDay(from)
	if err != nil {
		return err
	}
	end, err := parseDay(to)
	if err != nil {
		return err
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := t.theRecurringBatchRunsOn(day.Format("2006-01-02")); err != nil {
			return err
		}
		if err := t.theWalletBalanceShouldMatchItsLedger(); err != nil {
			return fmt.Errorf("after run on %s: %w", day.Format("2006-01-02"), err)
		}
	}
	return nil
}

func (t *testContext) triggerBatch() error {
	req, err := http.NewRequest(http.MethodPost, t.uri+router.CronRoute, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+testCronSecret)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("recurring batch failed with status %d: %s", resp.StatusCode, body)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return err
	}
	t.response = &response{status: resp.StatusCode, body: decoded}
	return nil
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{cron_secret}}", testCronSecret)
	content = strings.ReplaceAll(content, "{{user_id}}", t.currentUserID.String())
	content = strings.ReplaceAll(content, "{{wallet_id}}", t.currentWalletID.String())
	content = strings.ReplaceAll(content, "{{category_id}}", t.currentCategoryID.String())
	content = strings.ReplaceAll(content, "{{recurring_id}}", t.currentRuleID.String())
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody
	t.captureIDs(responseBody)

	return nil
}

// captureIDs remembers the resource created or fetched by the last request so later
// steps can refer to it through placeholders.
func (t *testContext) captureIDs(body map[string]any) {
	idStr, ok := body["id"].(string)
	if !ok {
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return
	}

	switch {
	case body["currency"] != nil:
		t.currentWalletID = id
	case body["frequency"] != nil:
		t.currentRuleID = id
	case body["amount"] != nil:
		t.lastTransactionID = id
	}
}

func (t *testContext) loadWallet() (*model.WalletModel, error) {
	var wallet model.WalletModel
	if err := t.db.DbConn.First(&wallet, "id = ?", t.currentWalletID).Error; err != nil {
		return nil, fmt.Errorf("wallet %s not found: %w", t.currentWalletID, err)
	}
	return &wallet, nil
}

// ledgerSum recomputes the wallet balance from its live entries.
func (t *testContext) ledgerSum() (string, error) {
	var entries []model.TransactionModel
	if err := t.db.DbConn.Where("wallet_id = ?", t.currentWalletID).Find(&entries).Error; err != nil {
		return "", err
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.ToEntity().BalanceDelta())
	}
	return total.StringFixed(2), nil
}
