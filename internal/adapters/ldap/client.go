package ldap

// Package ldap implements ports.DirectoryAuthenticator against an
// LDAP/Active Directory endpoint using a per-request connection:
// bind state is per-credential, so connections are never pooled.

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	goldap "github.com/go-ldap/ldap/v3"

	"github.com/espandar/bi-portal/config"
	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
	apperrors "github.com/espandar/bi-portal/internal/errors"
)

// userAttributes is the bounded attribute set requested from the directory.
var userAttributes = []string{
	"displayName",
	"mail",
	"memberOf",
	"userPrincipalName",
	"sAMAccountName",
	"cn",
}

// ignoredGroupPrefix filters the universal group every account carries;
// membership in it carries no authorization signal.
const ignoredGroupPrefix = "Domain Users"

// directoryConn is the connection surface Authenticate depends on. The
// production implementation is *goldap.Conn; the seam exists so connection
// release can be asserted in tests.
type directoryConn interface {
	Bind(username, password string) error
	Search(req *goldap.SearchRequest) (*goldap.SearchResult, error)
	SetTimeout(timeout time.Duration)
	Close() error
}

// Client authenticates users against a directory endpoint.
type Client struct {
	cfg        config.DirectoryConfig
	normalizer domainauth.Normalizer
	logger     *slog.Logger

	// dialConn opens one connection per authentication attempt.
	dialConn func(ctx context.Context) (directoryConn, error)
}

// NewClient constructs a directory client from configuration.
func NewClient(cfg config.DirectoryConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		cfg: cfg,
		normalizer: domainauth.Normalizer{
			Domain:    domainauth.DomainFromBaseDN(cfg.BaseDN),
			TitleCase: cfg.TitleCaseLogins,
		},
		logger: logger,
	}
	c.dialConn = c.dial
	return c
}

// Normalize exposes the client's canonical bind identifier for raw input.
func (c *Client) Normalize(username string) string {
	return c.normalizer.Normalize(username)
}

// Authenticate binds with the user's credentials and fetches their record.
// Invalid credentials return (nil, nil); only transport failures reaching
// the directory return an error. The connection is released on every exit
// path.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*domainauth.Identity, error) {
	// An empty password would be an unauthenticated (anonymous) bind,
	// which many directories accept. Refuse it outright.
	if strings.TrimSpace(password) == "" {
		return nil, nil
	}

	principal := c.normalizer.Normalize(username)

	conn, err := c.dialConn(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("directory unreachable", err)
	}
	defer conn.Close()
	conn.SetTimeout(c.cfg.OperationTimeout)

	if err := conn.Bind(principal, password); err != nil {
		if isTransportError(err) {
			return nil, apperrors.Unavailable("directory bind transport failure", err)
		}
		// Invalid credentials, disabled account, or any other
		// directory-reported bind error. The caller gets one
		// indistinguishable outcome.
		c.logger.DebugContext(ctx, "directory bind rejected",
			slog.String("principal", principal),
			slog.String("reason", err.Error()),
		)
		return nil, nil
	}

	identity := c.lookupIdentity(ctx, conn, principal)
	return identity, nil
}

// dial opens a directory connection honoring the configured connect timeout.
func (c *Client) dial(ctx context.Context) (directoryConn, error) {
	dialer := &net.Dialer{Timeout: c.cfg.ConnectTimeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}
	conn, err := goldap.DialURL(c.cfg.URL, goldap.DialWithDialer(dialer))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	return conn, nil
}

// lookupIdentity searches for the bound user's record. The bind already
// succeeded, so every failure here degrades to an identity built from the
// bind principal instead of failing the authentication.
func (c *Client) lookupIdentity(ctx context.Context, conn directoryConn, principal string) *domainauth.Identity {
	if c.cfg.BindDN != "" {
		// Some directories deny search under the user's own bind;
		// rebind as the service account when one is configured.
		if err := conn.Bind(c.cfg.BindDN, c.cfg.BindPassword); err != nil {
			c.logger.WarnContext(ctx, "service rebind failed, using degraded identity",
				slog.String("bind_dn", c.cfg.BindDN),
				slog.String("error", err.Error()),
			)
			return degradedIdentity(principal)
		}
	}

	account := domainauth.AccountName(principal)
	// Directories are inconsistent about which login attribute is
	// populated; match on either.
	filter := fmt.Sprintf(
		"(&(objectClass=user)(|(userPrincipalName=%s)(sAMAccountName=%s)))",
		goldap.EscapeFilter(principal),
		goldap.EscapeFilter(account),
	)

	req := goldap.NewSearchRequest(
		c.cfg.BaseDN,
		goldap.ScopeWholeSubtree,
		goldap.NeverDerefAliases,
		1, // size limit: one user is all we need
		int(c.cfg.OperationTimeout.Seconds()),
		false,
		filter,
		userAttributes,
		nil,
	)

	res, err := conn.Search(req)
	if err != nil || len(res.Entries) == 0 {
		if err != nil {
			c.logger.WarnContext(ctx, "directory search failed, using degraded identity",
				slog.String("principal", principal),
				slog.String("error", err.Error()),
			)
		}
		return degradedIdentity(principal)
	}

	return identityFromEntry(res.Entries[0], principal)
}

// identityFromEntry maps a directory entry onto the domain identity with
// the attribute fallbacks real directories require.
func identityFromEntry(entry *goldap.Entry, principal string) *domainauth.Identity {
	account := domainauth.AccountName(principal)

	displayName := entry.GetAttributeValue("displayName")
	if displayName == "" {
		displayName = entry.GetAttributeValue("cn")
	}
	if displayName == "" {
		displayName = account
	}

	email := entry.GetAttributeValue("mail")
	if email == "" {
		email = entry.GetAttributeValue("userPrincipalName")
	}
	if email == "" {
		email = principal
	}

	return &domainauth.Identity{
		CanonicalID: principal,
		DisplayName: displayName,
		Email:       email,
		Groups:      groupNames(entry.GetAttributeValues("memberOf")),
	}
}

// degradedIdentity builds the minimal identity used when the bind succeeded
// but the user record could not be read. Empty groups means default-deny.
func degradedIdentity(principal string) *domainauth.Identity {
	return &domainauth.Identity{
		CanonicalID: principal,
		DisplayName: domainauth.AccountName(principal),
		Email:       principal,
		Groups:      []string{},
	}
}

// groupNames extracts the leading CN component from each memberOf DN.
func groupNames(memberOf []string) []string {
	groups := make([]string, 0, len(memberOf))
	for _, dn := range memberOf {
		name := leadingCN(dn)
		if name == "" || strings.HasPrefix(name, ignoredGroupPrefix) {
			continue
		}
		groups = append(groups, name)
	}
	return groups
}

// leadingCN parses the first CN= RDN of a distinguished name. Falls back to
// plain string slicing when the DN does not parse (directories emit some
// surprising values).
func leadingCN(dn string) string {
	parsed, err := goldap.ParseDN(dn)
	if err == nil {
		for _, rdn := range parsed.RDNs {
			for _, attr := range rdn.Attributes {
				if strings.EqualFold(attr.Type, "CN") {
					return attr.Value
				}
			}
		}
		return ""
	}

	for _, part := range strings.Split(dn, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 3 && strings.EqualFold(part[:3], "CN=") {
			return part[3:]
		}
	}
	return ""
}

// isTransportError reports whether an LDAP operation failed at the network
// layer rather than being rejected by the directory.
func isTransportError(err error) bool {
	return goldap.IsErrorAnyOf(err,
		goldap.ErrorNetwork,
		goldap.LDAPResultServerDown,
		goldap.LDAPResultConnectError,
		goldap.LDAPResultTimeout,
	)
}
