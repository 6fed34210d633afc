package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/retry"
)

// Source names a remote site repository.
type Source struct {
	URL    string
	Branch string // empty clones the remote's default branch
	Auth   Auth
}

// Auth holds optional credentials. Token wins over username/password; a key
// path selects SSH public key authentication.
type Auth struct {
	Token    string
	Username string
	Password string
	KeyPath  string
}

// Checkout is a cloned working tree.
type Checkout struct {
	Path   string
	Commit string
}

// Client clones repositories into a workspace directory.
type Client struct {
	workspaceDir string
	logger       *slog.Logger
	depth        int
	policy       retry.Policy
}

// NewClient returns a client cloning into workspaceDir with depth 1.
func NewClient(workspaceDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{workspaceDir: workspaceDir, logger: logger, depth: 1, policy: retry.DefaultPolicy()}
}

// WithDepth sets the clone depth; 0 fetches the full history.
func (c *Client) WithDepth(depth int) *Client { c.depth = depth; return c }

// WithRetryPolicy replaces the retry policy for transient failures.
func (c *Client) WithRetryPolicy(p retry.Policy) *Client { c.policy = p; return c }

// Clone fetches src into <workspace>/<name> and returns the checkout.
func (c *Client) Clone(ctx context.Context, src Source, name string) (Checkout, error) {
	if strings.TrimSpace(src.URL) == "" {
		return Checkout{}, errors.UsageError("repository URL is required").Build()
	}
	if name == "" {
		name = "site"
	}
	var out Checkout
	err := c.policy.Do(ctx, IsTransient,
		func(attempt int, err error) {
			c.logger.Warn("Retrying git clone", logfields.URL(src.URL), slog.Int("attempt", attempt), logfields.Error(err))
		},
		func() error {
			var err error
			out, err = c.cloneOnce(ctx, src, filepath.Join(c.workspaceDir, name))
			return err
		})
	return out, err
}

func (c *Client) cloneOnce(ctx context.Context, src Source, repoPath string) (Checkout, error) {
	c.logger.Debug("Cloning repository", logfields.URL(src.URL), slog.String("branch", src.Branch), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return Checkout{}, errors.WrapError(err, errors.CategoryIO, "remove existing checkout").WithContext("path", repoPath).Build()
	}

	opts := &git.CloneOptions{URL: src.URL, Depth: c.depth, Tags: git.NoTags}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(src.Auth)
	if err != nil {
		return Checkout{}, err
	}
	opts.Auth = auth

	repository, err := git.PlainCloneContext(ctx, repoPath, false, opts)
	if err != nil {
		return Checkout{}, ClassifyGitError(err, "clone", src.URL)
	}
	out := Checkout{Path: repoPath}
	if ref, herr := repository.Head(); herr == nil {
		out.Commit = ref.Hash().String()
		c.logger.Info("Repository cloned", logfields.URL(src.URL), slog.String("commit", out.Commit[:8]), logfields.Path(repoPath))
	} else {
		c.logger.Info("Repository cloned", logfields.URL(src.URL), logfields.Path(repoPath))
	}
	return out, nil
}

// authMethod creates go-git authentication from a.
func authMethod(a Auth) (transport.AuthMethod, error) {
	switch {
	case a.KeyPath != "":
		keys, err := ssh.NewPublicKeysFromFile("git", a.KeyPath, a.Password)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("load SSH key from %s", a.KeyPath)).Build()
		}
		return keys, nil
	case a.Token != "":
		user := a.Username
		if user == "" {
			user = "token"
		}
		return &http.BasicAuth{Username: user, Password: a.Token}, nil
	case a.Username != "" || a.Password != "":
		if a.Username == "" || a.Password == "" {
			return nil, errors.ConfigError("basic authentication requires username and password").Build()
		}
		return &http.BasicAuth{Username: a.Username, Password: a.Password}, nil
	default:
		return nil, nil
	}
}
