package scripthost

// NullPresenter is a no-op implementation of Presenter.
type NullPresenter struct{}

func NewNullPresenter() *NullPresenter {
	return &NullPresenter{}
}

func (p *NullPresenter) Present(alert *Alert) error {
	return nil
}
