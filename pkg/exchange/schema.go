package exchange

// projectSchema is the JSON schema an imported project document must satisfy.
// Project and spec uuids are optional: imports always get a fresh project uuid,
// and specs without one get a new uuid.
const projectSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "uuid": {"type": "string"},
    "name": {"type": "string", "pattern": "^[^[:cntrl:]]*\\S[^[:cntrl:]]*$"},
    "sections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["uuid", "name"],
        "properties": {
          "uuid": {"type": "string", "format": "uuid"},
          "name": {"type": "string"}
        }
      }
    },
    "specs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["method"],
        "properties": {
          "uuid": {"type": "string", "format": "uuid"},
          "url": {"type": "string"},
          "method": {"enum": ["GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"]},
          "body": {"type": "string"},
          "headers": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["key", "value"],
              "properties": {
                "key": {"type": "string", "minLength": 1},
                "value": {"type": "string"},
                "isEnabled": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`
