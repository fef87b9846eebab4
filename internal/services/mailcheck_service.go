package services

import (
	"context"
	"net"
	"strings"
	"time"
)

// mxResolver is what MailCheckService needs from net.Resolver.
type mxResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// MailCheckService answers whether an address's domain can receive mail at
// all, by looking for MX records. It fails closed: a malformed address, a
// lookup error, or an empty record set all count as unreachable.
type MailCheckService interface {
	IsReachable(ctx context.Context, email string) bool
}

type mailCheckService struct {
	resolver mxResolver
	timeout  time.Duration
}

func NewMailCheckService(timeout time.Duration) MailCheckService {
	return &mailCheckService{resolver: net.DefaultResolver, timeout: timeout}
}

func (s *mailCheckService) IsReachable(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.resolver.LookupMX(ctx, domain)
	if err != nil {
		return false
	}
	return len(records) > 0
}
