package engine

import (
	"net/http"

	"github.com/ldpworks/ldprepo/model"
)

// parseRequestModel builds the §4.1 Request Model from r, additionally
// validating that ext (when present) is one of the two extensions this
// engine recognizes.
func parseRequestModel(r *http.Request, baseURL string) (*model.Request, error) {
	req, err := model.Parse(r, baseURL)
	if err != nil {
		return nil, err
	}
	if req.Ext != "" && req.Ext != "acl" && req.Ext != "timemap" {
		return nil, clientSyntaxError("unsupported ext value")
	}
	return req, nil
}

type requestError string

func (e requestError) Error() string { return string(e) }

func clientSyntaxError(msg string) error { return requestError(msg) }
