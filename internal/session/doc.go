// Package session models a learner's gamification state: experience points,
// levels, coins, quiz and study streaks, badges and achievements.
//
// State is a plain value. Apply folds one learning event into a state and
// returns the new state together with the notifications the learner should
// see; it never mutates its input and has no side effects, so callers decide
// how to persist the state and where to deliver the notifications.
package session
