package azure

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
)

// IsAlreadyExists checks if an error indicates the resource already exists.
// Only these failures are safe to downgrade to warnings on re-runs; anything
// else (notably permission errors) must stay fatal.
func IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		if respErr.StatusCode == http.StatusConflict {
			return true
		}
		if respErr.ErrorCode == "Conflict" || respErr.ErrorCode == "ResourceExists" {
			return true
		}
	}

	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		if odataErr.ResponseStatusCode == http.StatusConflict {
			return true
		}
		if mainErr := odataErr.GetErrorEscaped(); mainErr != nil {
			if code := mainErr.GetCode(); code != nil && *code == "Request_MultipleObjectsWithSameKeyValue" {
				return true
			}
			if msg := mainErr.GetMessage(); msg != nil && strings.Contains(strings.ToLower(*msg), "already exist") {
				return true
			}
		}
	}

	return false
}

// IsPermissionDenied checks if an error indicates missing authorization.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusUnauthorized || respErr.StatusCode == http.StatusForbidden
	}

	var odataErr *odataerrors.ODataError
	if errors.As(err, &odataErr) {
		return odataErr.ResponseStatusCode == http.StatusUnauthorized || odataErr.ResponseStatusCode == http.StatusForbidden
	}

	return false
}
