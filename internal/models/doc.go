// Package models defines domain entities shared across the discovery and curation phases.
//
// The central type is [RecommendationMap], the durable hand-off artifact
// written by phase 1 (discovery) and read by phase 2 (curation). Everything
// else ([GenreBucket], [Playlist]) is transient state owned by the pipeline
// stage that creates it.
package models
