package git

import (
	"context"
	"fmt"
	"strings"

	wtferrors "worktreeflow.dev/worktreeflow/internal/errors"
)

// PushOptions configures a push
type PushOptions struct {
	// Refspec is what to push, e.g. "feat/x" or "refs/remotes/upstream/main:refs/heads/main"
	Refspec     string
	SetUpstream bool
	// LeaseRef and LeaseSHA enable --force-with-lease=<LeaseRef>:<LeaseSHA>.
	// The push is rejected if the remote ref moved away from LeaseSHA.
	LeaseRef string
	LeaseSHA string
	Delete   bool
	// Description is recorded in the audit log
	Description string
}

// Push pushes to remote. Rejections caused by the remote ref having changed
// since it was observed are reported as ErrStaleRemoteInfo.
func (r *Repo) Push(ctx context.Context, remote string, opts PushOptions) error {
	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	if opts.LeaseRef != "" {
		args = append(args, fmt.Sprintf("--force-with-lease=%s:%s", opts.LeaseRef, opts.LeaseSHA))
	}
	if opts.Delete {
		args = append(args, "--delete")
	}
	args = append(args, remote, opts.Refspec)

	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("Push %s to %s", opts.Refspec, remote)
	}

	_, err := r.mutate(ctx, "", description, args...)
	if err == nil {
		return nil
	}

	// Check for stale info error (force-with-lease failed)
	output := wtferrors.Output(err)
	if strings.Contains(output, "stale info") {
		return wtferrors.NewRemoteOperationError("push", remote, opts.Refspec,
			fmt.Errorf("%w: %s moved since it was last fetched", ErrStaleRemoteInfo, opts.LeaseRef),
			"git fetch "+remote)
	}
	return wtferrors.NewRemoteOperationError("push", remote, opts.Refspec, err, pushFallback(remote, opts))
}

// pushFallback is the command to retry a failed push by hand. Lease and
// delete pushes are not repeated blindly; the remote is fetched instead.
func pushFallback(remote string, opts PushOptions) string {
	if opts.LeaseRef != "" || opts.Delete {
		return "git fetch " + remote
	}
	return fmt.Sprintf("git push %s %s", remote, opts.Refspec)
}
