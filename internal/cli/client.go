package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// CampaignResponse — кампания из API.
type CampaignResponse struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	Name        string         `json:"name"`
	AccountID   string         `json:"account_id"`
	Status      string         `json:"status"`
	AutoExecute bool           `json:"auto_execute"`
	Settings    map[string]any `json:"settings,omitempty"`
	Templates   map[string]any `json:"templates,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// ProspectResponse — prospect из API.
type ProspectResponse struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaign_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name,omitempty"`
	Title       string `json:"title,omitempty"`
	ProfileURL  string `json:"profile_url"`
	ProviderID  string `json:"provider_id,omitempty"`
	Status      string `json:"status"`
	ContactedAt string `json:"contacted_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// QueueItemResponse — элемент очереди из API.
type QueueItemResponse struct {
	ID           string `json:"id"`
	CampaignID   string `json:"campaign_id"`
	ProspectID   string `json:"prospect_id"`
	AccountID    string `json:"account_id"`
	MessageType  string `json:"message_type"`
	TargetID     string `json:"target_id"`
	ScheduledFor string `json:"scheduled_for"`
	Status       string `json:"status"`
	Attempts     int    `json:"attempts"`
	SentAt       string `json:"sent_at,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// QueueStatsResponse — счётчики очереди из API.
type QueueStatsResponse struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// AccountResponse — аккаунт workspace из API.
type AccountResponse struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	DailyLimit  int    `json:"daily_limit"`
	CreatedAt   string `json:"created_at"`
}

// --- Request types ---

// ListQueueOpts — параметры фильтрации очереди.
type ListQueueOpts struct {
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Cadence API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Campaigns ---

// ListCampaigns возвращает все кампании.
func (c *Client) ListCampaigns() ([]CampaignResponse, error) {
	var campaigns []CampaignResponse
	err := c.list("/api/v1/campaigns", nil, &campaigns)
	return campaigns, err
}

// GetCampaign возвращает кампанию по ID.
func (c *Client) GetCampaign(id string) (*CampaignResponse, error) {
	var campaign CampaignResponse
	err := c.get("/api/v1/campaigns/"+id, &campaign)
	return &campaign, err
}

// PauseCampaign приостанавливает кампанию.
func (c *Client) PauseCampaign(id string) (*CampaignResponse, error) {
	var campaign CampaignResponse
	err := c.post("/api/v1/campaigns/"+id+"/pause", nil, &campaign)
	return &campaign, err
}

// ResumeCampaign возобновляет кампанию.
func (c *Client) ResumeCampaign(id string) (*CampaignResponse, error) {
	var campaign CampaignResponse
	err := c.post("/api/v1/campaigns/"+id+"/resume", nil, &campaign)
	return &campaign, err
}

// ListProspects возвращает prospects кампании.
func (c *Client) ListProspects(campaignID string) ([]ProspectResponse, error) {
	var prospects []ProspectResponse
	err := c.list("/api/v1/campaigns/"+campaignID+"/prospects", nil, &prospects)
	return prospects, err
}

// --- Queue ---

// ListQueue возвращает элементы очереди кампании.
func (c *Client) ListQueue(campaignID string, opts ListQueueOpts) ([]QueueItemResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var items []QueueItemResponse
	err := c.list("/api/v1/campaigns/"+campaignID+"/queue", params, &items)
	return items, err
}

// QueueStats возвращает счётчики очереди кампании.
func (c *Client) QueueStats(campaignID string) (*QueueStatsResponse, error) {
	var stats QueueStatsResponse
	err := c.get("/api/v1/campaigns/"+campaignID+"/queue/stats", &stats)
	return &stats, err
}

// --- Accounts ---

// ListAccounts возвращает аккаунты workspace.
func (c *Client) ListAccounts() ([]AccountResponse, error) {
	var accounts []AccountResponse
	err := c.list("/api/v1/accounts", nil, &accounts)
	return accounts, err
}

// GetAccount возвращает аккаунт по ID.
func (c *Client) GetAccount(id string) (*AccountResponse, error) {
	var account AccountResponse
	err := c.get("/api/v1/accounts/"+id, &account)
	return &account, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
