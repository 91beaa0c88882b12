package inspect

import (
	"context"

	"worktreeflow.dev/worktreeflow/internal/git"
	"worktreeflow.dev/worktreeflow/internal/github"
	"worktreeflow.dev/worktreeflow/internal/topology"
)

// Lookup is whether a best-effort query produced an answer
type Lookup int

const (
	// Unknown means the query could not be answered
	Unknown Lookup = iota
	// Known means the query was answered, possibly with "none"
	Known
)

func (l Lookup) String() string {
	if l == Known {
		return "known"
	}
	return "unknown"
}

// WorktreeRecord is the observed state of one feature. It is rebuilt on
// every command and never persisted.
type WorktreeRecord struct {
	Path       string
	Branch     string
	HeadCommit string

	Exists         bool
	Registered     bool
	HasLocalBranch bool

	HasUncommittedChanges bool
	DirtyFiles            []git.FileStatus

	HasRemoteBranch bool
	RemoteLookup    Lookup

	ReviewRequest *github.PullRequestInfo
	ReviewLookup  Lookup
}

// HasAnything reports whether any artifact of the feature exists
func (r *WorktreeRecord) HasAnything() bool {
	return r.Exists || r.Registered || r.HasLocalBranch || r.HasRemoteBranch
}

// RecordOptions selects the remote to look at
type RecordOptions struct {
	Path         string
	Branch       string
	OriginRemote string
	Topology     topology.Topology
}

// Record gathers everything known about a feature's worktree, branches and
// review request. Remote and forge lookups degrade to Unknown on failure.
func (i *Inspector) Record(ctx context.Context, opts RecordOptions) (*WorktreeRecord, error) {
	record := &WorktreeRecord{
		Path:   opts.Path,
		Branch: opts.Branch,
		Exists: i.WorktreeExists(opts.Path),
	}

	registered, _, err := i.IsRegisteredWorktree(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	record.Registered = registered

	record.HasLocalBranch, err = i.repo.LocalBranchExists(opts.Branch)
	if err != nil {
		return nil, err
	}
	if record.HasLocalBranch {
		record.HeadCommit, err = i.repo.ResolveRef(opts.Branch)
		if err != nil {
			return nil, err
		}
	}

	if record.Exists && record.Registered {
		record.DirtyFiles, err = i.DirtyFiles(ctx, opts.Path, true)
		if err != nil {
			return nil, err
		}
		record.HasUncommittedChanges = len(record.DirtyFiles) > 0
	}

	if exists, err := i.RemoteBranchExists(ctx, opts.OriginRemote, opts.Branch); err == nil {
		record.HasRemoteBranch = exists
		record.RemoteLookup = Known
	}

	if opts.Topology.HasForkOwner() && i.ForgeAvailable() {
		pr, err := i.FindOpenReviewRequest(ctx, opts.Topology.UpstreamRepo, opts.Topology.HeadRef(opts.Branch))
		if err == nil {
			record.ReviewRequest = pr
			record.ReviewLookup = Known
		}
	}

	return record, nil
}
