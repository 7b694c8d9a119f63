package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/google/uuid"
)

// ErrSubmissionFailed 分数提交失败（重试耗尽或服务端拒绝）
var ErrSubmissionFailed = errors.New("score submission failed")

// scoreRequest POST {apiBaseUrl}/scores 的请求体
type scoreRequest struct {
	GameID   string `json:"gameID"`
	Score    int    `json:"score"`
	UserID   string `json:"userID"`
	Username string `json:"username"`
}

// ScoreResponse 服务端响应
type ScoreResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *ScoreData `json:"data"`
}

// ScoreData 提交成功后的排行信息
type ScoreData struct {
	RID       string `json:"rid"`
	GameID    string `json:"gameID"`
	Ranking   int    `json:"ranking"`
	Score     int    `json:"score"`
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

// SubmitResult 异步提交的结果
type SubmitResult struct {
	Submission PendingSubmission
	Data       *ScoreData
	Err        error
}

// PendingStore 待提交队列存储（由 SaveManager 实现）
type PendingStore interface {
	EnqueuePending(sub PendingSubmission) error
	PendingSubmissions() []PendingSubmission
	RemovePending(id string) error
}

// ScoreSubmitter 分数提交
//
// 每次提交带有一个 UUID 幂等键（Idempotency-Key 头），失败后按线性退避重试；
// 重试耗尽的分数进入持久化的待提交队列，下次启动时由 FlushPending 重新提交。
// 提交在后台 goroutine 中进行，结果通过 Results() 通道返回，从不触碰关卡状态。
type ScoreSubmitter struct {
	client     *http.Client
	baseURL    string
	gameID     string
	maxRetries int
	retryDelay time.Duration

	userID   string
	username string

	store PendingStore

	results chan SubmitResult
	wg      sync.WaitGroup
}

// NewScoreSubmitter 创建分数提交器
//
// 参数：
//   - cfg: 提交配置
//   - userID, username: 玩家身份
//   - store: 待提交队列，可为 nil（失败的分数直接丢弃）
func NewScoreSubmitter(cfg config.SubmissionConfig, userID, username string, store PendingStore) *ScoreSubmitter {
	return &ScoreSubmitter{
		client:     &http.Client{Timeout: seconds(cfg.Timeout)},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		gameID:     cfg.GameID,
		maxRetries: cfg.MaxRetries,
		retryDelay: seconds(cfg.RetryDelay),
		userID:     userID,
		username:   username,
		store:      store,
		results:    make(chan SubmitResult, 8),
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Submit 同步提交分数（含重试）
// 重试耗尽时将分数加入待提交队列并返回包装了 ErrSubmissionFailed 的错误
func (s *ScoreSubmitter) Submit(ctx context.Context, score int) (*ScoreData, error) {
	sub := PendingSubmission{ID: uuid.NewString(), Score: score, CreatedAt: time.Now()}
	data, err := s.submitWithRetry(ctx, sub)
	if err != nil {
		s.enqueue(sub)
		return nil, err
	}
	return data, nil
}

// SubmitAsync 在后台提交分数，结果写入 Results()
func (s *ScoreSubmitter) SubmitAsync(ctx context.Context, score int) {
	sub := PendingSubmission{ID: uuid.NewString(), Score: score, CreatedAt: time.Now()}
	log.Printf("[ScoreSubmitter] Submitting score %d for %s", score, s.username)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		data, err := s.submitWithRetry(ctx, sub)
		if err != nil {
			s.enqueue(sub)
		}

		select {
		case s.results <- SubmitResult{Submission: sub, Data: data, Err: err}:
		case <-ctx.Done():
		}
	}()
}

// Results 异步提交结果通道
func (s *ScoreSubmitter) Results() <-chan SubmitResult {
	return s.results
}

// Wait 等待所有后台提交结束
func (s *ScoreSubmitter) Wait() {
	s.wg.Wait()
}

// FlushPending 重新提交待提交队列中的分数，返回成功数量
// 使用原有的幂等键，服务端可据此去重
func (s *ScoreSubmitter) FlushPending(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	sent := 0
	var errs []error
	for _, sub := range s.store.PendingSubmissions() {
		if _, err := s.submitWithRetry(ctx, sub); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if err := s.store.RemovePending(sub.ID); err != nil {
			errs = append(errs, err)
		}
		sent++
	}

	if sent > 0 {
		log.Printf("[ScoreSubmitter] Flushed %d pending submissions", sent)
	}
	return sent, errors.Join(errs...)
}

// FlushPendingAsync 在后台执行 FlushPending，Wait 会等待它结束
func (s *ScoreSubmitter) FlushPendingAsync(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.FlushPending(ctx); err != nil {
			log.Printf("[ScoreSubmitter] Warning: pending submissions not flushed: %v", err)
		}
	}()
}

func (s *ScoreSubmitter) enqueue(sub PendingSubmission) {
	if s.store == nil {
		return
	}
	if err := s.store.EnqueuePending(sub); err != nil {
		log.Printf("[ScoreSubmitter] Warning: failed to queue score %d: %v", sub.Score, err)
	}
}

// submitWithRetry 按线性退避重试（第 n 次重试前等待 n × retryDelay）
func (s *ScoreSubmitter) submitWithRetry(ctx context.Context, sub PendingSubmission) (*ScoreData, error) {
	attempts := s.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, retryable, err := s.post(ctx, sub)
		if err == nil {
			log.Printf("[ScoreSubmitter] Score %d submitted, ranking #%d", sub.Score, data.Ranking)
			return data, nil
		}
		lastErr = err
		log.Printf("[ScoreSubmitter] Attempt %d/%d failed: %v", attempt, attempts, err)

		if !retryable || attempt == attempts {
			break
		}

		select {
		case <-time.After(time.Duration(attempt) * s.retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, ctx.Err())
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, lastErr)
}

// post 发送一次请求，返回错误是否值得重试
func (s *ScoreSubmitter) post(ctx context.Context, sub PendingSubmission) (*ScoreData, bool, error) {
	body, err := json.Marshal(scoreRequest{
		GameID:   s.gameID,
		Score:    sub.Score,
		UserID:   s.userID,
		Username: s.username,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/scores", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", sub.ID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("server returned %s", resp.Status)
	}
	if resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed ScoreResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if !parsed.Success {
		return nil, false, fmt.Errorf("rejected: %s", parsed.Message)
	}
	if parsed.Data == nil {
		parsed.Data = &ScoreData{GameID: s.gameID, Score: sub.Score, UserID: s.userID, Username: s.username}
	}
	return parsed.Data, false, nil
}
