package repository

import "testing"

// PostgresManualFundRepoはManualFundRepositoryインターフェースを満たすことを検証
func TestPostgresManualFundRepo_ImplementsInterface(t *testing.T) {
	var _ ManualFundRepository = (*PostgresManualFundRepo)(nil)
}

// NewPostgresManualFundRepoが正しく初期化されることを検証
func TestNewPostgresManualFundRepo_Initializes(t *testing.T) {
	repo := NewPostgresManualFundRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
