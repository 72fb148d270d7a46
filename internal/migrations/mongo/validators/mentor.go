package validators

import "go.mongodb.org/mongo-driver/bson"

var MentorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "name", "created_at", "updated_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
			"updated_at": bson.M{
				"bsonType": "date",
			},
			// written by booking inserts to serialise them against mentor deletes
			"last_booked_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
