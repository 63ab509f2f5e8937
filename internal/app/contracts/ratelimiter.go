package contracts

type ActorRateLimiter interface {
	Allow(actorID string) bool
}
