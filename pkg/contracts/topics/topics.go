package topics

const (
	// Change feed da tabela de apostas (before/after images)
	WagerChanges = "wager_changes"

	// Snapshots novos de jogos gravados pelo pipeline de ingestão
	GameUpdates = "game_updates"
)
