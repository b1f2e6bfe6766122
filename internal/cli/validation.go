package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/core/merkle"
	"github.com/example/rewards/internal/ctxutil"
	"github.com/example/rewards/internal/wire"
)

// parseIdentityArg parses a base58 identity given on the command line.
func parseIdentityArg(name, value string) (identity.Identity, error) {
	if value == "" {
		return identity.Zero, fmt.Errorf("%s is required", name)
	}
	id, err := identity.Parse(value)
	if err != nil {
		return identity.Zero, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// parseUintArg parses a non-negative decimal argument.
func parseUintArg(name, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	return n, nil
}

// parseProof parses a comma-separated list of 0x-prefixed digests.
func parseProof(value string) ([]merkle.Hash, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	proof := make([]merkle.Hash, 0, len(parts))
	for i, p := range parts {
		h, err := merkle.ParseHash(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid proof element %d: %w", i, err)
		}
		proof = append(proof, h)
	}
	return proof, nil
}

// newIdentity returns a fresh random identity.
func newIdentity() identity.Identity {
	id := uuid.New()
	return identity.Identity(merkle.Keccak256(id[:]))
}

// callerContext returns a context carrying the acting identity: the --as
// flag if set, otherwise the configured identity.
func callerContext(cmd *cobra.Command) (context.Context, error) {
	as, _ := cmd.Flags().GetString("as")
	if as != "" {
		id, err := parseIdentityArg("--as", as)
		if err != nil {
			return nil, err
		}
		return ctxutil.WithCaller(cmd.Context(), id), nil
	}

	id, err := wire.Config().CallerIdentity()
	if err != nil {
		return nil, err
	}
	return ctxutil.WithCaller(cmd.Context(), id), nil
}

// resolveDeployment returns the --deployment flag if set, otherwise the
// configured deployment.
func resolveDeployment(cmd *cobra.Command) (identity.Identity, error) {
	dep, _ := cmd.Flags().GetString("deployment")
	if dep != "" {
		return parseIdentityArg("--deployment", dep)
	}
	return wire.Config().DeploymentIdentity()
}

// commandContext carries what every deployment-scoped command needs.
type commandContext struct {
	ctx        context.Context
	deployment identity.Identity
}

// withDeployment resolves the deployment and caller, then runs fn.
func withDeployment(cmd *cobra.Command, fn func(cc commandContext) error) error {
	deployment, err := resolveDeployment(cmd)
	if err != nil {
		return err
	}
	ctx, err := callerContext(cmd)
	if err != nil {
		return err
	}
	return fn(commandContext{ctx: ctx, deployment: deployment})
}
