package confjson

//Package confjson implements serialization and unserialization of
//configuration records as line-delimited JSON. It's meant for the
//communication of confcat with other, independent programs, which
//can be written in any language able to read JSON, for instance
//through UNIX pipes.
