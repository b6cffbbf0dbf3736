// meta/meta.go
package meta

import "time"

// TICK is the simulated time advanced per game loop iteration.
const TICK = 16 * time.Millisecond

// MAX_DURATION bounds a game in simulated time.
const MAX_DURATION = 3 * time.Minute

// EPISODES caps the episodes of one search, 0 for no cap.
const EPISODES = 0

// WITH_CUTOFF defines the rollout depth in tiles.
const WITH_CUTOFF = 8

// SIMULATION_STEP is the sub-step used when advancing searched states.
const SIMULATION_STEP = 50 * time.Millisecond

// EXPORT_BUFFER is the number of trees waiting for export before new ones are dropped.
const EXPORT_BUFFER = 16

const EXPORT_DIR = "trees"

const LOG_LEVEL = "info"

// NUM_GAMES is the number of games per experiment match up.
const NUM_GAMES = 10
