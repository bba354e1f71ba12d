/*
Package domain contains the core models of the bubble effect's setup workflow.

It defines the calibration stages, the external events that advance them, the
session State snapshot and the lifecycle hooks used for observability. The
package is pure data: no I/O, no timers and no host collaborators.

# Key Entities

  - Stage: one of AwaitBackCamera, Calibrate, AwaitPlacement, FinishUp, Ready.
    Stages are strictly ordered and each is entered exactly once.
  - Event: an external occurrence (camera facing back, calibration timer,
    surface tap, overlay hidden) that may advance the current stage.
  - State: the snapshot of a session (current stage, history, pulse count).
  - LifecycleHooks: callbacks fired on stage entry, stage exit and grid pulse.
*/
package domain
