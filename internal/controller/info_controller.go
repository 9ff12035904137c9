package controller

import (
	"net/http"

	"github.com/TradeTrust/api-storage/internal/domain/policy"
)

// InfoController serves app init info: version, feature flags and the full
// policy table, which clients use to render quota limits without extra
// round trips.
type InfoController struct {
	version  string
	features map[string]bool
	policies policy.Lookup
}

// NewInfoController creates a new InfoController.
func NewInfoController(version string, features map[string]bool, policies policy.Lookup) *InfoController {
	return &InfoController{
		version:  version,
		features: features,
		policies: policies,
	}
}

// Version handles GET /version.
func (h *InfoController) Version(w http.ResponseWriter, r *http.Request) {
	all, err := h.policies.Policies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := VersionResponse{
		Version:  h.version,
		Features: h.features,
		Policies: make([]PolicyResponse, 0, len(all)),
	}
	for _, p := range all {
		resp.Policies = append(resp.Policies, FromPolicy(p))
	}

	writeJSON(w, http.StatusOK, resp)
}
