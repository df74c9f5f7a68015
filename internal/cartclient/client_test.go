package cartclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

type staticTokenSource string

func (s staticTokenSource) Token() string { return string(s) }

func TestClientAddItemRequest(t *testing.T) {
	const expectedURL = "http://cart.test/v1/cart/items"
	respBody := `{"data":{"id":"cart-1","items":[{"id":"line-1","product_id":"p1","quantity":2,"unit_price":"10.00","subtotal":"20.00"}],"subtotal_amount":"20.00","total_amount":"20.00","currency":"USD"}}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["product_id"] != "p1" {
			t.Fatalf("unexpected product id %q", payload["product_id"])
		}
		if payload["quantity"] != float64(2) {
			t.Fatalf("unexpected quantity %v", payload["quantity"])
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("http://cart.test/v1",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithTokenSource(staticTokenSource("session-token")),
		WithGuestIDSource(func(context.Context) string { return "guest-42" }),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	cart, err := client.AddItem(context.Background(), AddItemInput{ProductID: "p1", Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("Authorization") != "Bearer session-token" {
		t.Fatalf("authorization header missing, got %q", capturedHeaders.Get("Authorization"))
	}
	if capturedHeaders.Get("X-Guest-ID") != "guest-42" {
		t.Fatalf("guest header missing, got %q", capturedHeaders.Get("X-Guest-ID"))
	}
	if cart.ID != "cart-1" || len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestClientAddItemValidatesInput(t *testing.T) {
	client, err := NewClient("http://cart.test/v1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.AddItem(context.Background(), AddItemInput{ProductID: "p1", Quantity: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = client.AddItem(context.Background(), AddItemInput{Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing product, got %v", err)
	}
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusConflict,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"CONFLICT","message":"insufficient inventory"}}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("http://cart.test/v1", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.AddItem(context.Background(), AddItemInput{ProductID: "p1", Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if typed.Message() != "insufficient inventory" {
		t.Fatalf("expected server message to be preserved, got %q", typed.Message())
	}
}

func TestClientUpdateQuantityGuards(t *testing.T) {
	client, err := NewClient("http://cart.test/v1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.UpdateItemQuantity(context.Background(), "", 2); err == nil {
		t.Fatal("expected missing item id to fail")
	}
	if _, err := client.UpdateItemQuantity(context.Background(), "line-1", 0); err == nil {
		t.Fatal("expected non-positive quantity to fail")
	}
}

func TestClientClearToleratesNoContent(t *testing.T) {
	var capturedMethod, capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedMethod = req.Method
		capturedURL = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusNoContent,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("http://cart.test/v1/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if capturedMethod != http.MethodDelete || capturedURL != "http://cart.test/v1/cart" {
		t.Fatalf("unexpected request %s %s", capturedMethod, capturedURL)
	}
}
