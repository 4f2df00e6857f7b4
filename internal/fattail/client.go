// Package fattail is a SOAP 1.1 client for the FatTail campaign-management API.
package fattail

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/centraldesktop/fattailsync/internal/transport"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

const (
	// System identifies this client in errors and logs.
	System = "fattail"

	// DefaultNamespace is the XML namespace of the FatTail service contract.
	DefaultNamespace = "http://www.FatTail.com/api"

	// DefaultActionPrefix is prepended to the operation name in the SOAPAction header.
	DefaultActionPrefix = "http://www.FatTail.com/api/IFatTailService/"
)

// Config configures a Service.
type Config struct {
	URL          string
	Username     string
	Password     string
	Namespace    string
	ActionPrefix string
	HTTPClient   *http.Client
}

// Service calls FatTail operations over SOAP.
type Service struct {
	url          string
	namespace    string
	actionPrefix string
	transport    *transport.Client
}

// NewService creates a Service from cfg.
func NewService(cfg Config) *Service {
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	action := cfg.ActionPrefix
	if action == "" {
		action = DefaultActionPrefix
	}
	return &Service{
		url:          cfg.URL,
		namespace:    ns,
		actionPrefix: action,
		transport: transport.New(
			&transport.BasicAuth{Username: cfg.Username, Password: cfg.Password},
			transport.WithHTTPClient(cfg.HTTPClient),
		),
	}
}

// Call invokes op with params and decodes the body content into out.
// A nil out discards the result.
func (s *Service) Call(ctx context.Context, op string, params Params, out any) error {
	payload, err := xml.Marshal(newEnvelope(s.namespace, op, params))
	if err != nil {
		return errors.WrapParse("xml", op, err)
	}
	payload = append([]byte(xml.Header), payload...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return errors.WrapResource("create", "request", op, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("SOAPAction", `"`+s.actionPrefix+op+`"`)

	logging.FromContext(ctx).Debug().Str("system", System).Str("operation", op).Msg("SOAP call")

	resp, err := s.transport.Do(ctx, req)
	if err != nil {
		return errors.WrapAPI(System, op, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", op+" response", err)
	}

	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return errors.NewAPIError(System, op, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return errors.WrapParse("xml", op+" response", err)
	}
	if env.Body.Fault != nil {
		return errors.NewAPIError(System, op, resp.StatusCode,
			fmt.Sprintf("%s: %s", env.Body.Fault.Code, env.Body.Fault.String))
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewAPIError(System, op, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := xml.Unmarshal(env.Body.Content, out); err != nil {
		return errors.WrapParse("xml", op+" response", err)
	}
	return nil
}

// GetSavedReportList lists all saved reports.
func (s *Service) GetSavedReportList(ctx context.Context) ([]SavedReport, error) {
	var resp savedReportListResponse
	if err := s.Call(ctx, "GetSavedReportList", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Reports, nil
}

// GetSavedReportQuery returns the query stored with a saved report.
func (s *Service) GetSavedReportQuery(ctx context.Context, savedReportID int) (ReportQuery, error) {
	var resp savedReportQueryResponse
	err := s.Call(ctx, "GetSavedReportQuery", Params{Int("savedReportId", savedReportID)}, &resp)
	return resp.Result.Query, err
}

// RunReportJob starts an asynchronous report job and returns its id.
func (s *Service) RunReportJob(ctx context.Context, query ReportQuery) (int, error) {
	var resp runReportJobResponse
	err := s.Call(ctx, "RunReportJob", Params{{Name: "reportJob", Value: reportJobRequest{Query: query}}}, &resp)
	return resp.Result.ReportJobID, err
}

// GetReportJob returns the current state of a report job.
func (s *Service) GetReportJob(ctx context.Context, jobID int) (ReportJob, error) {
	var resp reportJobResponse
	err := s.Call(ctx, "GetReportJob", Params{Int("reportJobId", jobID)}, &resp)
	return resp.Result, err
}

// GetReportDownloadURL returns where the finished report can be downloaded.
func (s *Service) GetReportDownloadURL(ctx context.Context, jobID int) (string, error) {
	var resp reportDownloadURLResponse
	err := s.Call(ctx, "GetReportDownloadUrl", Params{Int("reportJobId", jobID)}, &resp)
	return strings.TrimSpace(resp.Result), err
}

// GetClient fetches a Client by id.
func (s *Service) GetClient(ctx context.Context, clientID int) (*Client, error) {
	var resp clientResponse
	if err := s.Call(ctx, "GetClient", Params{Int("clientId", clientID)}, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// GetOrder fetches an Order by id.
func (s *Service) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	var resp orderResponse
	if err := s.Call(ctx, "GetOrder", Params{Int("orderId", orderID)}, &resp); err != nil {
		return nil, err
	}
	resp.Result.DynamicPropertyValues.Normalize()
	return &resp.Result, nil
}

// GetDrop fetches a Drop by id.
func (s *Service) GetDrop(ctx context.Context, dropID int) (*Drop, error) {
	var resp dropResponse
	if err := s.Call(ctx, "GetDrop", Params{Int("dropId", dropID)}, &resp); err != nil {
		return nil, err
	}
	resp.Result.DynamicPropertyValues.Normalize()
	return &resp.Result, nil
}

// UpdateClient writes client back in full.
func (s *Service) UpdateClient(ctx context.Context, client *Client) error {
	return s.Call(ctx, "UpdateClient", Params{{Name: "client", Value: client}}, nil)
}

// UpdateOrder writes order back in full.
func (s *Service) UpdateOrder(ctx context.Context, order *Order) error {
	return s.Call(ctx, "UpdateOrder", Params{{Name: "order", Value: order}}, nil)
}

// UpdateDrop writes drop back in full.
func (s *Service) UpdateDrop(ctx context.Context, drop *Drop) error {
	return s.Call(ctx, "UpdateDrop", Params{{Name: "drop", Value: drop}}, nil)
}

// GetDynamicProperties lists the property definitions for a record kind.
func (s *Service) GetDynamicProperties(ctx context.Context, kind RecordKind) ([]DynamicProperty, error) {
	var op string
	switch kind {
	case KindOrder:
		op = "GetDynamicPropertiesListForOrder"
	case KindDrop:
		op = "GetDynamicPropertiesListForDrop"
	default:
		return nil, errors.NewValidationError("kind", kind, "unsupported record kind")
	}

	var resp dynamicPropertiesResponse
	if err := s.Call(ctx, op, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Items, nil
}
