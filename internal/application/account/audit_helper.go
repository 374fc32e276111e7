package account

import (
	"context"
	"errors"

	"github.com/baechuer/account-service/internal/domain"
)

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}

// record emits one audit entry; err decides the result field.
func (s *Service) record(ctx context.Context, action string, err error, fields map[string]string) {
	out := make(map[string]string, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out["result"] = "error"
		out["error_code"] = domainCode(err)
	} else {
		out["result"] = "success"
	}
	s.audit(ctx, action, out)
}
