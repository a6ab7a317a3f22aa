package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/shareview/shareview/internal/pkg/timeutil"
	"github.com/shareview/shareview/internal/repo"
)

// ChallengeCleanupJob garbage-collects OTP challenges that can never
// succeed again: expired ones and spent ones.
type ChallengeCleanupJob struct {
	challenges *repo.OTPChallengeRepo
}

func NewChallengeCleanupJob(challenges *repo.OTPChallengeRepo) *ChallengeCleanupJob {
	return &ChallengeCleanupJob{challenges: challenges}
}

func (j *ChallengeCleanupJob) Name() string {
	return "challenge_cleanup"
}

func (j *ChallengeCleanupJob) Run(ctx context.Context) error {
	if j.challenges == nil {
		return nil
	}
	deleted, err := j.challenges.DeleteExpired(ctx, timeutil.NowUnix())
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("expired challenges removed", zap.Int64("count", deleted))
	}
	return nil
}
