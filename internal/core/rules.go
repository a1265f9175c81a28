package core

import "scenecore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in constraint set.
// Shape rules register before referential integrity, which registers before
// uniqueness, so a record broken in several ways reports its shape problem
// first. The transition rule runs last as a backstop for raw status writes.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(GuildVariantRule())
	engine.Register(FollowTargetRule())
	engine.Register(InvitationShapeRule())
	engine.Register(ReferentialIntegrityRule())
	engine.Register(UniqueConstraintsRule())
	engine.Register(InvitationTransitionRule())
	return engine
}
