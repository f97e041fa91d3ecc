package summarizer

const Version = "v0.1.0"
