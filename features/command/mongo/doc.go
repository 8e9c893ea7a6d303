// Package mongo runs mongoutil commands against a MongoDB deployment. Connect
// dials the deployment and returns a Runner; NewRunner wraps an existing
// client from features/command/mongo/clients/mongo.
package mongo
