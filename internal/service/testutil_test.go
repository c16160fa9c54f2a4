package service

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/repository"
	"github.com/propelhq/proposal-api/internal/testutil"
)

type testEnv struct {
	db          *gorm.DB
	blocks      *BlockService
	proposals   *ProposalService
	blockRepo   *repository.BlockRepository
	sectionRepo *repository.SectionRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zap.NewNop()

	blockRepo := repository.NewBlockRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	proposalBlockRepo := repository.NewProposalBlockRepository(db)
	paymentTermRepo := repository.NewPaymentTermRepository(db)

	return &testEnv{
		db:          db,
		blocks:      NewBlockService(blockRepo, proposalBlockRepo, log),
		proposals:   NewProposalService(proposalRepo, sectionRepo, proposalBlockRepo, paymentTermRepo, blockRepo, log),
		blockRepo:   blockRepo,
		sectionRepo: sectionRepo,
	}
}
