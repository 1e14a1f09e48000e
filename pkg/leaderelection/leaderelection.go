// Package leaderelection asks the elector sidecar which replica leads, so
// that shared cleanup only runs once per deployment.
package leaderelection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/datamesh/mesh-console/pkg/errs"
)

// EnvElectorPath names the variable the sidecar address is read from.
const EnvElectorPath = "ELECTOR_PATH"

const defaultRetries = 3

type Elector struct {
	path     string
	hostname string
	client   *http.Client
	retries  int
	backoff  time.Duration
}

// New returns an elector for the sidecar at path. Without a path the
// replica always leads, which is what local development expects.
func New(path, hostname string, client *http.Client) *Elector {
	return &Elector{
		path:     path,
		hostname: hostname,
		client:   client,
		retries:  defaultRetries,
		backoff:  time.Second,
	}
}

// NewFromEnv reads the sidecar address from the environment and uses the
// pod hostname as the replica name.
func NewFromEnv(client *http.Client) (*Elector, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("reading hostname: %w", err)
	}

	return New(os.Getenv(EnvElectorPath), hostname, client), nil
}

func (e *Elector) IsLeader(ctx context.Context) (bool, error) {
	const op errs.Op = "leaderelection.IsLeader"

	if e.path == "" {
		return true, nil
	}

	leader, err := e.leader(ctx)
	if err != nil {
		return false, errs.E(errs.IO, op, err)
	}

	return leader == e.hostname, nil
}

func (e *Elector) leader(ctx context.Context) (string, error) {
	var lastErr error

	for i := 1; i <= e.retries; i++ {
		name, err := e.ask(ctx)
		if err == nil {
			return name, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(e.backoff * time.Duration(i)):
		}
	}

	return "", fmt.Errorf("no response from elector after %d retries: %w", e.retries, lastErr)
}

func (e *Elector) ask(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+e.path, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("elector responded with %s", resp.Status)
	}

	var electorResponse struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&electorResponse); err != nil {
		return "", err
	}

	return electorResponse.Name, nil
}
