package application

type MusicPlayer interface {
	Songs() []string
	Search(query string) []string
	Play(name string) error
	Stop()
	Current() (string, bool)
}
