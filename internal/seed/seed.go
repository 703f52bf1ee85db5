// Package seed はJSONファイルからの初期データ投入を提供する。
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// ファイル名は投入データの種類ごとに固定。
const (
	projectFile = "projectData.json"
	tagFile     = "tagData.json"
	taskFile    = "taskData.json"
	teamFile    = "teamData.json"
	userFile    = "userData.json"
)

// projectSeed はプロジェクト投入データの1レコード。
type projectSeed struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// tagSeed はタグ投入データの1レコード。
type tagSeed struct {
	Name string `json:"name"`
}

// taskSeed はタスク投入データの1レコード。
type taskSeed struct {
	Name           string   `json:"name"`
	Project        string   `json:"project"`
	Team           string   `json:"team"`
	Owners         []string `json:"owners"`
	Tags           []string `json:"tags"`
	TimeToComplete int      `json:"timeToComplete"`
	Status         string   `json:"status"`
}

// teamSeed はチーム投入データの1レコード。
type teamSeed struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// userSeed はユーザー投入データの1レコード。パスワードは平文で記述し、投入時にハッシュする。
type userSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Repos は投入先のリポジトリ一式。
type Repos struct {
	Users    repository.UserRepository
	Projects repository.ProjectRepository
	Teams    repository.TeamRepository
	Tags     repository.TagRepository
	Tasks    repository.TaskRepository
}

// Loader はシードデータの読み込みと投入を行う。
type Loader struct {
	repos      Repos
	bcryptCost int
}

// NewLoader はLoaderを生成する。costが0の場合はbcrypt.DefaultCostを使用する。
func NewLoader(repos Repos, bcryptCost int) *Loader {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Loader{
		repos:      repos,
		bcryptCost: bcryptCost,
	}
}

// Run はディレクトリ配下の全シードファイルを読み込んで投入する。
// 存在しないファイルはスキップする。重複メールのユーザーもスキップして続行する。
func (l *Loader) Run(ctx context.Context, dir string) error {
	if err := l.seedProjects(ctx, filepath.Join(dir, projectFile)); err != nil {
		return err
	}
	if err := l.seedTags(ctx, filepath.Join(dir, tagFile)); err != nil {
		return err
	}
	if err := l.seedTasks(ctx, filepath.Join(dir, taskFile)); err != nil {
		return err
	}
	if err := l.seedTeams(ctx, filepath.Join(dir, teamFile)); err != nil {
		return err
	}
	if err := l.seedUsers(ctx, filepath.Join(dir, userFile)); err != nil {
		return err
	}
	return nil
}

func (l *Loader) seedProjects(ctx context.Context, path string) error {
	var records []projectSeed
	ok, err := readSeedFile(path, &records)
	if err != nil || !ok {
		return err
	}

	now := time.Now()
	for _, rec := range records {
		project := &model.Project{
			ID:          uuid.New().String(),
			Name:        rec.Name,
			Description: rec.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := l.repos.Projects.Create(ctx, project); err != nil {
			return fmt.Errorf("failed to seed project %q: %w", rec.Name, err)
		}
	}

	slog.Info("projects seeded", slog.Int("count", len(records)))
	return nil
}

func (l *Loader) seedTags(ctx context.Context, path string) error {
	var records []tagSeed
	ok, err := readSeedFile(path, &records)
	if err != nil || !ok {
		return err
	}

	now := time.Now()
	for _, rec := range records {
		tag := &model.Tag{
			ID:        uuid.New().String(),
			Name:      rec.Name,
			CreatedAt: now,
		}
		if err := l.repos.Tags.Create(ctx, tag); err != nil {
			return fmt.Errorf("failed to seed tag %q: %w", rec.Name, err)
		}
	}

	slog.Info("tags seeded", slog.Int("count", len(records)))
	return nil
}

func (l *Loader) seedTasks(ctx context.Context, path string) error {
	var records []taskSeed
	ok, err := readSeedFile(path, &records)
	if err != nil || !ok {
		return err
	}

	now := time.Now()
	for _, rec := range records {
		status := rec.Status
		if status == "" {
			status = "To Do"
		}
		task := &model.Task{
			ID:             uuid.New().String(),
			Name:           rec.Name,
			Project:        rec.Project,
			Team:           rec.Team,
			Owners:         rec.Owners,
			Tags:           rec.Tags,
			TimeToComplete: rec.TimeToComplete,
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := l.repos.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to seed task %q: %w", rec.Name, err)
		}
	}

	slog.Info("tasks seeded", slog.Int("count", len(records)))
	return nil
}

func (l *Loader) seedTeams(ctx context.Context, path string) error {
	var records []teamSeed
	ok, err := readSeedFile(path, &records)
	if err != nil || !ok {
		return err
	}

	now := time.Now()
	for _, rec := range records {
		team := &model.Team{
			ID:          uuid.New().String(),
			Name:        rec.Name,
			Description: rec.Description,
			Members:     rec.Members,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := l.repos.Teams.Create(ctx, team); err != nil {
			return fmt.Errorf("failed to seed team %q: %w", rec.Name, err)
		}
	}

	slog.Info("teams seeded", slog.Int("count", len(records)))
	return nil
}

func (l *Loader) seedUsers(ctx context.Context, path string) error {
	var records []userSeed
	ok, err := readSeedFile(path, &records)
	if err != nil || !ok {
		return err
	}

	now := time.Now()
	created := 0
	for _, rec := range records {
		hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), l.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", rec.Email, err)
		}

		user := &model.User{
			ID:           uuid.New().String(),
			Name:         rec.Name,
			Email:        rec.Email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := l.repos.Users.Create(ctx, user); err != nil {
			// 再実行時の重複メールはスキップして続行する
			if err == repository.ErrDuplicateEmail {
				slog.Warn("user already seeded, skipping", slog.String("email", rec.Email))
				continue
			}
			return fmt.Errorf("failed to seed user %q: %w", rec.Email, err)
		}
		created++
	}

	slog.Info("users seeded", slog.Int("count", created))
	return nil
}

// readSeedFile はJSONファイルを読み込む。ファイルが存在しない場合は(false, nil)を返す。
func readSeedFile(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("seed file not found, skipping", slog.String("path", path))
			return false, nil
		}
		return false, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return true, nil
}
