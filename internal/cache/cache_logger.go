package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// failing the caller's write path.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of failing the caller's
// write path.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateExamCache drops everything derived from one exam's row.
func InvalidateExamCache(ctx context.Context, cm *CacheManager, examID uint) {
	SafeDelete(ctx, cm.Exam,
		fmt.Sprintf("id:%d", examID))

	SafeInvalidatePattern(ctx, cm.Exam, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("exam:%d:*", examID))
	SafeInvalidatePattern(ctx, cm.Result, fmt.Sprintf("exam:%d:*", examID))
}

// InvalidatePaperCache drops the cached document for one paper plus the
// per-exam document listing.
func InvalidatePaperCache(ctx context.Context, cm *CacheManager, examID, paperID uint) {
	SafeDelete(ctx, cm.Paper,
		fmt.Sprintf("doc:%d:%d", examID, paperID))
	SafeInvalidatePattern(ctx, cm.Paper, fmt.Sprintf("exam:%d:*", examID))
}

// InvalidateResultCache drops result listings for the exam and the student
// after a score write; ranks are recomputed on the next read.
func InvalidateResultCache(ctx context.Context, cm *CacheManager, examID, studentID uint) {
	SafeInvalidatePattern(ctx, cm.Result, fmt.Sprintf("exam:%d:*", examID))
	SafeInvalidatePattern(ctx, cm.Result, fmt.Sprintf("student:%d:*", studentID))
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}
