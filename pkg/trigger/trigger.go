package trigger

import (
	"context"
	"net/url"
	"time"

	"github.com/5280sourcegroup/website/pkg/httpclient"
	"github.com/5280sourcegroup/website/pkg/logger"
	"go.uber.org/zap"
)

// Timeout bounds a single trigger call.
const Timeout = 10 * time.Second

// CallAsync calls triggerURL with recordID appended, in the background. Failures are
// logged and never reach the caller. The returned channel is closed when the call ends;
// it is closed immediately when no URL is configured.
func CallAsync(triggerURL, recordID string, httpClient httpclient.Client) <-chan struct{} {
	done := make(chan struct{})
	if triggerURL == "" {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), Timeout)
		defer cancel()

		targetURL := triggerURL + url.QueryEscape(recordID)
		resp, err := httpclient.Get(ctx, httpClient, targetURL)
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", targetURL),
				zap.String("record_id", recordID))
			return
		}
		defer httpclient.Drain(resp)

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Trigger URL called successfully",
				zap.String("record_id", recordID),
				zap.Int("status_code", resp.StatusCode))
			return
		}
		logger.Warn("Trigger URL returned non-success status",
			zap.String("url", targetURL),
			zap.String("record_id", recordID),
			zap.Int("status_code", resp.StatusCode))
	}()

	return done
}
