// Package revocation tracks tokens and subjects that must no longer
// validate, independent of cryptographic validity. A token is revoked by
// its token ID until the revocation's expiry passes (after which the token
// is expired anyway); a subject revocation covers every token minted for
// that subject and persists until explicitly reinstated.
//
// Two implementations are provided: MemoryStore, a mutex-guarded in-process
// map suitable for single-node deployments and tests, and RedisStore, which
// shares revocation state across processes and leans on Redis key TTLs so
// token-level entries expire without an explicit sweep.
//
// The asymmetry between the two record kinds is deliberate: token-level
// entries are pruned once their expiry passes, subject-level entries never
// are. Cleanup only ever touches token-level state.
package revocation
