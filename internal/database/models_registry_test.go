package database

import (
	"testing"

	modelspkg "memoria/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesModerationSet(t *testing.T) {
	var hasReport, hasNotification, hasBlock bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Report:
			hasReport = true
		case *modelspkg.Notification:
			hasNotification = true
		case *modelspkg.CommunityBlock:
			hasBlock = true
		}
	}
	require.True(t, hasReport, "PersistentModels should include Report")
	require.True(t, hasNotification, "PersistentModels should include Notification")
	require.True(t, hasBlock, "PersistentModels should include CommunityBlock")
}
