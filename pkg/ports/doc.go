/*
Package ports defines the driven ports (interfaces) of waypoint.

These interfaces decouple planning sessions from where catalogs come from and
where committed state is kept.

# Key Interfaces

  - CatalogLoader: produces a validated catalog (from a file, a Loam directory or memory).
  - JournalStore: persists the committed real context of a session between steps.
  - DistributedLocker: serialises access to a session across replicas.
*/
package ports
